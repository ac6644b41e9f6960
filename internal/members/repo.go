package members

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("team member not found")
	ErrHasAssignments = errors.New("team member has assigned work")
	ErrDuplicateEmail = errors.New("email already in use")
)

type Member struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Email              *string   `json:"email"`
	Role               *string   `json:"role"`
	Skills             []string  `json:"skills"`
	HourlyRate         *float64  `json:"hourly_rate"`
	AvailabilityStatus string    `json:"availability_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// Availability is a member plus workload counters for the availability view.
type Availability struct {
	Member
	AssignedTasks int64 `json:"assigned_tasks"`
	PendingTasks  int64 `json:"pending_tasks"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// decodeSkills tolerates malformed stored skills and falls back to an empty
// list, same as the availability view expects.
func decodeSkills(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var skills []string
	if err := json.Unmarshal(raw, &skills); err != nil {
		return []string{}
	}
	return skills
}

func (r *Repo) List(ctx context.Context) ([]Member, error) {
	const q = `
select id, name, email, role, skills, hourly_rate, availability_status, created_at
from team_members
order by name asc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Member, 0, 16)
	for rows.Next() {
		var m Member
		var skills []byte
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &skills,
			&m.HourlyRate, &m.AvailabilityStatus, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Skills = decodeSkills(skills)
		out = append(out, m)
	}
	return out, rows.Err()
}

type MemberParams struct {
	Name               string
	Email              *string
	Role               *string
	Skills             []string
	HourlyRate         *float64
	AvailabilityStatus string
}

func (r *Repo) Create(ctx context.Context, p MemberParams) (*Member, error) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.AvailabilityStatus == "" {
		p.AvailabilityStatus = "available"
	}
	skillsJSON, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, err
	}

	const q = `
insert into team_members (name, email, role, skills, hourly_rate, availability_status)
values ($1, $2, $3, $4, $5, $6)
returning id, name, email, role, skills, hourly_rate, availability_status, created_at;
`
	var m Member
	var skills []byte
	err = r.db.QueryRow(ctx, q, p.Name, p.Email, p.Role, skillsJSON, p.HourlyRate, p.AvailabilityStatus).
		Scan(&m.ID, &m.Name, &m.Email, &m.Role, &skills,
			&m.HourlyRate, &m.AvailabilityStatus, &m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	m.Skills = decodeSkills(skills)
	return &m, nil
}

func (r *Repo) Update(ctx context.Context, id int64, p MemberParams) (*Member, error) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.AvailabilityStatus == "" {
		p.AvailabilityStatus = "available"
	}
	skillsJSON, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, err
	}

	const q = `
update team_members
set name = $2, email = $3, role = $4, skills = $5, hourly_rate = $6, availability_status = $7
where id = $1
returning id, name, email, role, skills, hourly_rate, availability_status, created_at;
`
	var m Member
	var skills []byte
	err = r.db.QueryRow(ctx, q, id, p.Name, p.Email, p.Role, skillsJSON, p.HourlyRate, p.AvailabilityStatus).
		Scan(&m.ID, &m.Name, &m.Email, &m.Role, &skills,
			&m.HourlyRate, &m.AvailabilityStatus, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	m.Skills = decodeSkills(skills)
	return &m, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `delete from team_members where id = $1;`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrHasAssignments
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ListAvailability(ctx context.Context) ([]Availability, error) {
	const q = `
select tm.id, tm.name, tm.email, tm.role, tm.skills, tm.hourly_rate,
       tm.availability_status, tm.created_at,
       count(t.id) as assigned_tasks,
       coalesce(sum(case when t.status != 'completed' then 1 else 0 end), 0) as pending_tasks
from team_members tm
left join tasks t on t.assigned_to = tm.id
group by tm.id
order by tm.name asc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Availability, 0, 16)
	for rows.Next() {
		var a Availability
		var skills []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Role, &skills,
			&a.HourlyRate, &a.AvailabilityStatus, &a.CreatedAt,
			&a.AssignedTasks, &a.PendingTasks); err != nil {
			return nil, err
		}
		a.Skills = decodeSkills(skills)
		out = append(out, a)
	}
	return out, rows.Err()
}
