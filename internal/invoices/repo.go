package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("invoice not found")

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

type Invoice struct {
	ID            int64      `json:"id"`
	ProjectID     *int64     `json:"project_id"`
	ClientID      *int64     `json:"client_id"`
	InvoiceNumber string     `json:"invoice_number"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"due_date"`
	PaymentDate   *time.Time `json:"payment_date"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	ProjectName   *string    `json:"project_name,omitempty"`
	ClientName    *string    `json:"client_name,omitempty"`
}

type InvoiceParams struct {
	ProjectID   *int64
	ClientID    *int64
	Amount      float64
	Status      string
	DueDate     *time.Time
	PaymentDate *time.Time
	Notes       *string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// newNumber mints an invoice number from the current time, millisecond
// precision. Uniqueness rides on the column constraint, not on this value.
func newNumber() string {
	return fmt.Sprintf("INV-%d", time.Now().UnixMilli())
}

const selectInvoice = `
select i.id, i.project_id, i.client_id, i.invoice_number, i.amount, i.status,
       i.due_date, i.payment_date, i.notes, i.created_at,
       p.name as project_name, c.name as client_name
from invoices i
left join projects p on i.project_id = p.id
left join clients c on i.client_id = c.id
`

func collect(rows pgx.Rows) ([]Invoice, error) {
	defer rows.Close()

	out := make([]Invoice, 0, 16)
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.ProjectID, &inv.ClientID, &inv.InvoiceNumber, &inv.Amount,
			&inv.Status, &inv.DueDate, &inv.PaymentDate, &inv.Notes, &inv.CreatedAt,
			&inv.ProjectName, &inv.ClientName); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *Repo) List(ctx context.Context) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, selectInvoice+`order by i.created_at desc;`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) Get(ctx context.Context, id int64) (*Invoice, error) {
	var inv Invoice
	err := r.db.QueryRow(ctx, selectInvoice+`where i.id = $1;`, id).
		Scan(&inv.ID, &inv.ProjectID, &inv.ClientID, &inv.InvoiceNumber, &inv.Amount,
			&inv.Status, &inv.DueDate, &inv.PaymentDate, &inv.Notes, &inv.CreatedAt,
			&inv.ProjectName, &inv.ClientName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *Repo) ListByProject(ctx context.Context, projectID int64) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, selectInvoice+`where i.project_id = $1 order by i.created_at desc;`, projectID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListOverdue returns unpaid invoices past their due date, whether or not the
// sweep has marked them yet.
func (r *Repo) ListOverdue(ctx context.Context) ([]Invoice, error) {
	const where = `
where i.status <> 'paid' and i.due_date is not null and i.due_date < now()
order by i.due_date asc;
`
	rows, err := r.db.Query(ctx, selectInvoice+where)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) Create(ctx context.Context, p InvoiceParams) (*Invoice, error) {
	status := p.Status
	if status == "" {
		status = StatusPending
	}

	const q = `
insert into invoices (project_id, client_id, invoice_number, amount, status, due_date, payment_date, notes)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id;
`
	var id int64
	err := r.db.QueryRow(ctx, q, p.ProjectID, p.ClientID, newNumber(), p.Amount,
		status, p.DueDate, p.PaymentDate, p.Notes).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update rewrites the invoice. An empty status keeps the stored value so a
// partial body never blanks a paid or overdue invoice back to nothing.
func (r *Repo) Update(ctx context.Context, id int64, p InvoiceParams) (*Invoice, error) {
	const q = `
update invoices
set project_id = $2, client_id = $3, amount = $4,
    status = coalesce(nullif($5, ''), status),
    due_date = $6, payment_date = $7, notes = $8
where id = $1
returning id;
`
	var updated int64
	err := r.db.QueryRow(ctx, q, id, p.ProjectID, p.ClientID, p.Amount, p.Status,
		p.DueDate, p.PaymentDate, p.Notes).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `delete from invoices where id = $1;`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOverdue flips pending invoices past their due date to overdue and
// returns the ones it changed, for broadcasting.
func (r *Repo) MarkOverdue(ctx context.Context) ([]Invoice, error) {
	const q = `
update invoices
set status = 'overdue'
where status = 'pending' and due_date is not null and due_date < now()
returning id;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, 8)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Invoice, 0, len(ids))
	for _, id := range ids {
		inv, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, nil
}
