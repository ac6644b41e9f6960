package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Message is a chat message posted under a project or a task thread. Mentions
// holds the mentioned member ids.
type Message struct {
	ID        int64     `json:"id"`
	ProjectID *int64    `json:"project_id"`
	TaskID    *int64    `json:"task_id"`
	MemberID  *int64    `json:"member_id"`
	Content   string    `json:"content"`
	Mentions  []int64   `json:"mentions"`
	CreatedAt time.Time `json:"created_at"`
	UserName  *string   `json:"user_name,omitempty"`
}

type MessageParams struct {
	ProjectID *int64
	TaskID    *int64
	MemberID  *int64
	Content   string
	Mentions  []int64
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const selectMessage = `
select m.id, m.project_id, m.task_id, m.member_id, m.content, m.mentions, m.created_at,
       tm.name as user_name
from messages m
left join team_members tm on m.member_id = tm.id
`

// decodeMentions tolerates a malformed mentions blob rather than failing the
// whole listing.
func decodeMentions(raw []byte, id int64) []int64 {
	if len(raw) == 0 {
		return []int64{}
	}
	var out []int64
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("message %d: bad mentions payload: %v", id, err)
		return []int64{}
	}
	return out
}

func (r *Repo) ListByProject(ctx context.Context, projectID int64) ([]Message, error) {
	rows, err := r.db.Query(ctx, selectMessage+`where m.project_id = $1 order by m.created_at asc;`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0, 32)
	for rows.Next() {
		var m Message
		var mentions []byte
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.TaskID, &m.MemberID,
			&m.Content, &mentions, &m.CreatedAt, &m.UserName); err != nil {
			return nil, err
		}
		m.Mentions = decodeMentions(mentions, m.ID)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) ListByTask(ctx context.Context, taskID int64) ([]Message, error) {
	rows, err := r.db.Query(ctx, selectMessage+`where m.task_id = $1 order by m.created_at asc;`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0, 32)
	for rows.Next() {
		var m Message
		var mentions []byte
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.TaskID, &m.MemberID,
			&m.Content, &mentions, &m.CreatedAt, &m.UserName); err != nil {
			return nil, err
		}
		m.Mentions = decodeMentions(mentions, m.ID)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, p MessageParams) (*Message, error) {
	if p.Mentions == nil {
		p.Mentions = []int64{}
	}
	mentions, err := json.Marshal(p.Mentions)
	if err != nil {
		return nil, err
	}

	const q = `
insert into messages (project_id, task_id, member_id, content, mentions)
values ($1, $2, $3, $4, $5)
returning id;
`
	var id int64
	if err := r.db.QueryRow(ctx, q, p.ProjectID, p.TaskID, p.MemberID,
		p.Content, mentions).Scan(&id); err != nil {
		return nil, err
	}

	var m Message
	var raw []byte
	if err := r.db.QueryRow(ctx, selectMessage+`where m.id = $1;`, id).
		Scan(&m.ID, &m.ProjectID, &m.TaskID, &m.MemberID,
			&m.Content, &raw, &m.CreatedAt, &m.UserName); err != nil {
		return nil, err
	}
	m.Mentions = decodeMentions(raw, m.ID)
	return &m, nil
}
