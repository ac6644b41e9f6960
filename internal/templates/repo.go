package templates

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("template not found")

type Template struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Structure   json.RawMessage `json:"structure"`
	CreatedBy   *int64          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatorName *string         `json:"creator_name,omitempty"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

var _ Store = (*Repo)(nil)

func (r *Repo) List(ctx context.Context) ([]Template, error) {
	const q = `
select pt.id, pt.name, pt.description, pt.structure, pt.created_by, pt.created_at,
       tm.name as creator_name
from project_templates pt
left join team_members tm on pt.created_by = tm.id
order by pt.name asc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Template, 0, 16)
	for rows.Next() {
		var t Template
		var structure []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &structure,
			&t.CreatedBy, &t.CreatedAt, &t.CreatorName); err != nil {
			return nil, err
		}
		t.Structure = structure
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Template, error) {
	const q = `
select pt.id, pt.name, pt.description, pt.structure, pt.created_by, pt.created_at,
       tm.name as creator_name
from project_templates pt
left join team_members tm on pt.created_by = tm.id
where pt.id = $1;
`
	var t Template
	var structure []byte
	err := r.db.QueryRow(ctx, q, id).
		Scan(&t.ID, &t.Name, &t.Description, &structure,
			&t.CreatedBy, &t.CreatedAt, &t.CreatorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t.Structure = structure
	return &t, nil
}

type TemplateParams struct {
	Name        string
	Description *string
	Structure   json.RawMessage
	CreatedBy   *int64
}

func (r *Repo) Create(ctx context.Context, p TemplateParams) (*Template, error) {
	const q = `
insert into project_templates (name, description, structure, created_by)
values ($1, $2, $3, $4)
returning id, name, description, structure, created_by, created_at;
`
	var t Template
	var structure []byte
	err := r.db.QueryRow(ctx, q, p.Name, p.Description, []byte(p.Structure), p.CreatedBy).
		Scan(&t.ID, &t.Name, &t.Description, &structure, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Structure = structure
	return &t, nil
}

func (r *Repo) Update(ctx context.Context, id int64, p TemplateParams) (*Template, error) {
	// Mutation replaces the whole structure blob.
	const q = `
update project_templates
set name = $2, description = $3, structure = $4
where id = $1
returning id, name, description, structure, created_by, created_at;
`
	var t Template
	var structure []byte
	err := r.db.QueryRow(ctx, q, id, p.Name, p.Description, []byte(p.Structure)).
		Scan(&t.ID, &t.Name, &t.Description, &structure, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t.Structure = structure
	return &t, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `delete from project_templates where id = $1;`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateProjectWithTasks inserts the new project and all of its tasks in one
// transaction. Readers never observe a project with a subset of its tasks;
// any failure rolls everything back.
func (r *Repo) CreateProjectWithTasks(ctx context.Context, p NewProjectParams, tasks []ExpandedTask) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insProject = `
insert into projects (client_id, name, description, status, due_date)
values ($1, $2, $3, 'brief', $4)
returning id;
`
	var projectID int64
	if err := tx.QueryRow(ctx, insProject, p.ClientID, p.Name, p.Description, p.DueDate).
		Scan(&projectID); err != nil {
		return 0, err
	}

	const insTask = `
insert into tasks (project_id, title, description, priority, status)
values ($1, $2, $3, $4, 'pending');
`
	for _, t := range tasks {
		if _, err := tx.Exec(ctx, insTask, projectID, t.Title, t.Description, t.Priority); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return projectID, nil
}
