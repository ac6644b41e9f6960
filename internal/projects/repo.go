package projects

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("project not found")
	ErrHasTasks = errors.New("project has associated tasks")
)

// Valid project statuses, in pipeline order.
const (
	StatusBrief    = "brief"
	StatusConcept  = "concept"
	StatusReview   = "review"
	StatusDelivery = "delivery"
)

type Project struct {
	ID          int64      `json:"id"`
	ClientID    *int64     `json:"client_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	ClientName  *string    `json:"client_name,omitempty"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) List(ctx context.Context) ([]Project, error) {
	const q = `
select p.id, p.client_id, p.name, p.description, p.status, p.start_date, p.due_date,
       c.name as client_name
from projects p
left join clients c on p.client_id = c.id
order by p.start_date desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &p.Description, &p.Status,
			&p.StartDate, &p.DueDate, &p.ClientName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type ProjectParams struct {
	ClientID    *int64
	Name        string
	Description *string
	Status      string
	DueDate     *time.Time
}

func (r *Repo) Create(ctx context.Context, p ProjectParams) (*Project, error) {
	if p.Status == "" {
		p.Status = StatusBrief
	}

	const q = `
insert into projects (client_id, name, description, status, due_date)
values ($1, $2, $3, $4, $5)
returning id, client_id, name, description, status, start_date, due_date;
`
	var out Project
	err := r.db.QueryRow(ctx, q, p.ClientID, p.Name, p.Description, p.Status, p.DueDate).
		Scan(&out.ID, &out.ClientID, &out.Name, &out.Description, &out.Status,
			&out.StartDate, &out.DueDate)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Update(ctx context.Context, id int64, p ProjectParams) (*Project, error) {
	const q = `
update projects
set client_id = $2, name = $3, description = $4, status = $5, due_date = $6
where id = $1
returning id, client_id, name, description, status, start_date, due_date;
`
	var out Project
	err := r.db.QueryRow(ctx, q, id, p.ClientID, p.Name, p.Description, p.Status, p.DueDate).
		Scan(&out.ID, &out.ClientID, &out.Name, &out.Description, &out.Status,
			&out.StartDate, &out.DueDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `delete from projects where id = $1;`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrHasTasks
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
