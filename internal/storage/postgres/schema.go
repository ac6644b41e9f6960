package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema statements are idempotent so they can run on every boot.
// Delete rules mirror the ownership model: tasks, time entries and invoices
// block deletion of what they reference (RESTRICT), while files, messages
// and calendar events disappear with their project (CASCADE).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_name ON clients (name)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT REFERENCES clients (id) ON DELETE RESTRICT,
		name TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'brief',
		start_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		due_date TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_client_id ON projects (client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects (status)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE,
		role TEXT,
		skills JSONB NOT NULL DEFAULT '[]'::jsonb,
		hourly_rate NUMERIC(10,2),
		availability_status TEXT NOT NULL DEFAULT 'available',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_email ON team_members (email)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT REFERENCES projects (id) ON DELETE RESTRICT,
		title TEXT NOT NULL,
		description TEXT,
		assigned_to BIGINT REFERENCES team_members (id) ON DELETE RESTRICT,
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'pending',
		due_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks (assigned_to)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status)`,

	`CREATE TABLE IF NOT EXISTS time_entries (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT REFERENCES projects (id) ON DELETE RESTRICT,
		task_id BIGINT REFERENCES tasks (id) ON DELETE RESTRICT,
		member_id BIGINT REFERENCES team_members (id) ON DELETE RESTRICT,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		description TEXT,
		duration INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_project_id ON time_entries (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_task_id ON time_entries (task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_member_id ON time_entries (member_id)`,
	// At most one open entry in the whole system. Concurrent timer starts
	// race on this index instead of on an application-level check.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_time_entries_active
		ON time_entries ((end_time IS NULL)) WHERE end_time IS NULL`,

	`CREATE TABLE IF NOT EXISTS project_templates (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		structure JSONB NOT NULL,
		created_by BIGINT REFERENCES team_members (id) ON DELETE RESTRICT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_project_templates_name ON project_templates (name)`,

	`CREATE TABLE IF NOT EXISTS calendar_events (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		event_type TEXT NOT NULL DEFAULT 'meeting',
		project_id BIGINT REFERENCES projects (id) ON DELETE CASCADE,
		created_by BIGINT REFERENCES team_members (id) ON DELETE RESTRICT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_project_id ON calendar_events (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_created_by ON calendar_events (created_by)`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT REFERENCES projects (id) ON DELETE RESTRICT,
		client_id BIGINT REFERENCES clients (id) ON DELETE RESTRICT,
		invoice_number TEXT UNIQUE,
		amount NUMERIC(10,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		due_date TIMESTAMPTZ,
		payment_date TIMESTAMPTZ,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_project_id ON invoices (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_client_id ON invoices (client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices (status)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT REFERENCES projects (id) ON DELETE CASCADE,
		task_id BIGINT REFERENCES tasks (id) ON DELETE CASCADE,
		member_id BIGINT REFERENCES team_members (id) ON DELETE RESTRICT,
		content TEXT NOT NULL,
		mentions JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_project_id ON messages (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_task_id ON messages (task_id)`,
}

// Migrate creates all tables and indexes if they don't exist.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema migration: %w", err)
		}
	}
	return nil
}
