package reports

import (
	"context"
	"database/sql"
)

// ProjectTime aggregates logged minutes per project, with the billable value
// derived from each entry's member rate.
type ProjectTime struct {
	ProjectID      int64   `json:"project_id"`
	ProjectName    string  `json:"project_name"`
	TotalMinutes   int64   `json:"total_minutes"`
	EntryCount     int64   `json:"entry_count"`
	BillableAmount float64 `json:"billable_amount"`
}

// MemberTime aggregates logged minutes per team member.
type MemberTime struct {
	MemberID       int64   `json:"member_id"`
	MemberName     string  `json:"member_name"`
	TotalMinutes   int64   `json:"total_minutes"`
	EntryCount     int64   `json:"entry_count"`
	BillableAmount float64 `json:"billable_amount"`
}

// Repo runs read-only aggregation queries. It deliberately takes a *sql.DB
// rather than the pgx pool so the queries can be exercised against a mock.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const projectTimeQuery = `
select p.id, p.name,
       coalesce(sum(te.duration), 0) as total_minutes,
       count(te.id) as entry_count,
       coalesce(sum(te.duration / 60.0 * tm.hourly_rate), 0) as billable_amount
from projects p
left join time_entries te on te.project_id = p.id and te.end_time is not null
left join team_members tm on te.member_id = tm.id
group by p.id, p.name
order by total_minutes desc`

func (r *Repo) TimeByProject(ctx context.Context) ([]ProjectTime, error) {
	rows, err := r.db.QueryContext(ctx, projectTimeQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProjectTime, 0, 16)
	for rows.Next() {
		var pt ProjectTime
		if err := rows.Scan(&pt.ProjectID, &pt.ProjectName,
			&pt.TotalMinutes, &pt.EntryCount, &pt.BillableAmount); err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

const memberTimeQuery = `
select tm.id, tm.name,
       coalesce(sum(te.duration), 0) as total_minutes,
       count(te.id) as entry_count,
       coalesce(sum(te.duration / 60.0 * tm.hourly_rate), 0) as billable_amount
from team_members tm
left join time_entries te on te.member_id = tm.id and te.end_time is not null
group by tm.id, tm.name
order by total_minutes desc`

func (r *Repo) TimeByMember(ctx context.Context) ([]MemberTime, error) {
	rows, err := r.db.QueryContext(ctx, memberTimeQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MemberTime, 0, 16)
	for rows.Next() {
		var mt MemberTime
		if err := rows.Scan(&mt.MemberID, &mt.MemberName,
			&mt.TotalMinutes, &mt.EntryCount, &mt.BillableAmount); err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}
