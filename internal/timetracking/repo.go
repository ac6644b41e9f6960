package timetracking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("time entry not found")
	ErrTimerRunning   = errors.New("there is already an active timer")
	ErrAlreadyStopped = errors.New("time entry is already stopped")
	ErrInvalidEntry   = errors.New("start_time and end_time are required")
)

// Entry is a time entry, enriched with project/task display names on reads.
// An open (running) entry has nil EndTime and nil Duration; Duration is in
// minutes and always derived from the two boundaries.
type Entry struct {
	ID          int64      `json:"id"`
	ProjectID   *int64     `json:"project_id"`
	TaskID      *int64     `json:"task_id"`
	MemberID    *int64     `json:"member_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Description *string    `json:"description"`
	Duration    *int       `json:"duration"`
	ProjectName *string    `json:"project_name,omitempty"`
	TaskName    *string    `json:"task_name,omitempty"`
}

type StartParams struct {
	ProjectID *int64
	TaskID    *int64
	MemberID  *int64
	StartTime *time.Time
}

type EntryParams struct {
	ProjectID   *int64
	TaskID      *int64
	MemberID    *int64
	StartTime   *time.Time
	EndTime     *time.Time
	Description *string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

var _ Controller = (*Repo)(nil)

const selectEntry = `
select te.id, te.project_id, te.task_id, te.member_id, te.start_time, te.end_time,
       te.description, te.duration,
       p.name as project_name, t.title as task_name
from time_entries te
left join projects p on te.project_id = p.id
left join tasks t on te.task_id = t.id
`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ProjectID, &e.TaskID, &e.MemberID, &e.StartTime, &e.EndTime,
		&e.Description, &e.Duration, &e.ProjectName, &e.TaskName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repo) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.Query(ctx, selectEntry+`order by te.start_time desc;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, 16)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.TaskID, &e.MemberID, &e.StartTime, &e.EndTime,
			&e.Description, &e.Duration, &e.ProjectName, &e.TaskName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) get(ctx context.Context, id int64) (*Entry, error) {
	return scanEntry(r.db.QueryRow(ctx, selectEntry+`where te.id = $1;`, id))
}

// Start opens a new timer. The partial unique index on open entries makes
// the insert itself the concurrency check: a second concurrent start loses
// the race inside Postgres and surfaces here as a unique violation.
func (r *Repo) Start(ctx context.Context, p StartParams) (*Entry, error) {
	if p.ProjectID == nil {
		return nil, ErrInvalidEntry
	}

	const q = `
insert into time_entries (project_id, task_id, member_id, start_time)
values ($1, $2, $3, coalesce($4, now()))
returning id;
`
	var id int64
	err := r.db.QueryRow(ctx, q, p.ProjectID, p.TaskID, p.MemberID, p.StartTime).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrTimerRunning
		}
		return nil, err
	}

	return r.get(ctx, id)
}

// Stop closes the entry in a single statement so the end_time/duration pair
// is never observable half-written. The WHERE clause only matches an open
// entry; zero rows means either a missing entry or one already closed.
func (r *Repo) Stop(ctx context.Context, id int64) (*Entry, error) {
	const q = `
update time_entries
set end_time = now(),
    duration = greatest(0, round(extract(epoch from (now() - start_time)) / 60))::int
where id = $1 and end_time is null
returning id;
`
	var stopped int64
	err := r.db.QueryRow(ctx, q, id).Scan(&stopped)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := r.db.QueryRow(ctx,
				`select exists(select 1 from time_entries where id = $1);`, id).Scan(&exists); err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrAlreadyStopped
			}
			return nil, ErrNotFound
		}
		return nil, err
	}

	entry, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.EndTime != nil && entry.EndTime.Before(entry.StartTime) {
		log.Printf("time entry %d stopped before it started; duration clamped to 0", id)
	}
	return entry, nil
}

// Create inserts a fully-specified entry. Both boundaries are required, so
// a direct create can never produce a second open timer.
func (r *Repo) Create(ctx context.Context, p EntryParams) (*Entry, error) {
	if p.StartTime == nil || p.EndTime == nil {
		return nil, ErrInvalidEntry
	}
	duration := Minutes(*p.StartTime, *p.EndTime)

	const q = `
insert into time_entries (project_id, task_id, member_id, start_time, end_time, description, duration)
values ($1, $2, $3, $4, $5, $6, $7)
returning id;
`
	var id int64
	err := r.db.QueryRow(ctx, q, p.ProjectID, p.TaskID, p.MemberID,
		p.StartTime, p.EndTime, p.Description, duration).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, id)
}

// Update rewrites a fully-specified entry, recomputing duration from the new
// boundaries.
func (r *Repo) Update(ctx context.Context, id int64, p EntryParams) (*Entry, error) {
	if p.StartTime == nil || p.EndTime == nil {
		return nil, ErrInvalidEntry
	}
	duration := Minutes(*p.StartTime, *p.EndTime)

	const q = `
update time_entries
set project_id = $2, task_id = $3, member_id = $4,
    start_time = $5, end_time = $6, description = $7, duration = $8
where id = $1
returning id;
`
	var updated int64
	err := r.db.QueryRow(ctx, q, id, p.ProjectID, p.TaskID, p.MemberID,
		p.StartTime, p.EndTime, p.Description, duration).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `delete from time_entries where id = $1;`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
