package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("calendar event not found")

const (
	TypeMeeting  = "meeting"
	TypeDeadline = "deadline"
	TypeReminder = "reminder"
)

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	EventType   string    `json:"event_type"`
	ProjectID   *int64    `json:"project_id"`
	CreatedBy   *int64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	ProjectName *string   `json:"project_name,omitempty"`
	CreatorName *string   `json:"creator_name,omitempty"`
}

type EventParams struct {
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	EventType   string
	ProjectID   *int64
	CreatedBy   *int64
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const selectEvent = `
select ce.id, ce.title, ce.description, ce.start_time, ce.end_time, ce.event_type,
       ce.project_id, ce.created_by, ce.created_at,
       p.name as project_name, tm.name as creator_name
from calendar_events ce
left join projects p on ce.project_id = p.id
left join team_members tm on ce.created_by = tm.id
`

func (r *Repo) List(ctx context.Context) ([]Event, error) {
	rows, err := r.db.Query(ctx, selectEvent+`order by ce.start_time asc;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0, 16)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.EventType,
			&e.ProjectID, &e.CreatedBy, &e.CreatedAt, &e.ProjectName, &e.CreatorName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Event, error) {
	var e Event
	err := r.db.QueryRow(ctx, selectEvent+`where ce.id = $1;`, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.EventType,
			&e.ProjectID, &e.CreatedBy, &e.CreatedAt, &e.ProjectName, &e.CreatorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repo) Create(ctx context.Context, p EventParams) (*Event, error) {
	eventType := p.EventType
	if eventType == "" {
		eventType = TypeMeeting
	}

	const q = `
insert into calendar_events (title, description, start_time, end_time, event_type, project_id, created_by)
values ($1, $2, $3, $4, $5, $6, $7)
returning id;
`
	var id int64
	err := r.db.QueryRow(ctx, q, p.Title, p.Description, p.StartTime, p.EndTime,
		eventType, p.ProjectID, p.CreatedBy).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id int64, p EventParams) (*Event, error) {
	eventType := p.EventType
	if eventType == "" {
		eventType = TypeMeeting
	}

	const q = `
update calendar_events
set title = $2, description = $3, start_time = $4, end_time = $5, event_type = $6, project_id = $7
where id = $1
returning id;
`
	var updated int64
	err := r.db.QueryRow(ctx, q, id, p.Title, p.Description, p.StartTime, p.EndTime,
		eventType, p.ProjectID).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `delete from calendar_events where id = $1;`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
