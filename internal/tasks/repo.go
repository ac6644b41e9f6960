package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("task not found")
	ErrHasTimeEntries = errors.New("task has associated time entries")
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          int64      `json:"id"`
	ProjectID   *int64     `json:"project_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *int64     `json:"assigned_to"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	ProjectName *string    `json:"project_name,omitempty"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) List(ctx context.Context) ([]Task, error) {
	const q = `
select t.id, t.project_id, t.title, t.description, t.assigned_to,
       t.priority, t.status, t.due_date, t.created_at,
       p.name as project_name
from tasks t
left join projects p on t.project_id = p.id
order by t.due_date asc nulls last;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0, 16)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssignedTo,
			&t.Priority, &t.Status, &t.DueDate, &t.CreatedAt, &t.ProjectName); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type TaskParams struct {
	ProjectID   *int64
	Title       string
	Description *string
	AssignedTo  *int64
	Priority    string
	Status      string
	DueDate     *time.Time
}

func (p *TaskParams) applyDefaults() {
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
}

func (r *Repo) Create(ctx context.Context, p TaskParams) (*Task, error) {
	p.applyDefaults()

	const q = `
insert into tasks (project_id, title, description, assigned_to, priority, status, due_date)
values ($1, $2, $3, $4, $5, $6, $7)
returning id, project_id, title, description, assigned_to, priority, status, due_date, created_at;
`
	var t Task
	err := r.db.QueryRow(ctx, q, p.ProjectID, p.Title, p.Description, p.AssignedTo,
		p.Priority, p.Status, p.DueDate).
		Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssignedTo,
			&t.Priority, &t.Status, &t.DueDate, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update rewrites the task. An empty priority or status keeps the stored
// value; only Create applies the medium/pending defaults.
func (r *Repo) Update(ctx context.Context, id int64, p TaskParams) (*Task, error) {
	const q = `
update tasks
set project_id = $2, title = $3, description = $4, assigned_to = $5,
    priority = coalesce(nullif($6, ''), priority),
    status = coalesce(nullif($7, ''), status),
    due_date = $8
where id = $1
returning id, project_id, title, description, assigned_to, priority, status, due_date, created_at;
`
	var t Task
	err := r.db.QueryRow(ctx, q, id, p.ProjectID, p.Title, p.Description, p.AssignedTo,
		p.Priority, p.Status, p.DueDate).
		Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssignedTo,
			&t.Priority, &t.Status, &t.DueDate, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `delete from tasks where id = $1;`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrHasTimeEntries
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
