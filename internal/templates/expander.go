package templates

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrInvalidProject = errors.New("client_id and name are required")

// NewProjectParams carries the attributes of the project a template is
// expanded into.
type NewProjectParams struct {
	ClientID    *int64
	Name        string
	Description *string
	DueDate     *time.Time
}

// ExpandedTask is a task row to be created alongside the new project. Status
// is not a field: every expanded task starts out pending, just as the new
// project starts out in brief, whatever the template says.
type ExpandedTask struct {
	Title       string
	Description *string
	Priority    string
}

// Store is the slice of the template repository the expander needs.
// CreateProjectWithTasks must be atomic: either the project and every task
// become visible together, or nothing does.
type Store interface {
	Get(ctx context.Context, id int64) (*Template, error)
	CreateProjectWithTasks(ctx context.Context, p NewProjectParams, tasks []ExpandedTask) (int64, error)
}

// Expander instantiates a project, plus one task per blueprint, from a
// stored template.
type Expander struct {
	store Store
}

func NewExpander(store Store) *Expander {
	return &Expander{store: store}
}

// CreateProject expands the template into a new project and returns the new
// project's id. The template is loaded before anything is written, so a
// missing template has no side effects.
func (e *Expander) CreateProject(ctx context.Context, templateID int64, p NewProjectParams) (int64, error) {
	if p.ClientID == nil || strings.TrimSpace(p.Name) == "" {
		return 0, ErrInvalidProject
	}

	tpl, err := e.store.Get(ctx, templateID)
	if err != nil {
		return 0, err
	}

	s, err := ParseStructure(tpl.Structure)
	if err != nil {
		return 0, err
	}

	tasks := make([]ExpandedTask, 0, len(s.Tasks))
	for _, bp := range s.Tasks {
		priority := bp.Priority
		if priority == "" {
			priority = "medium"
		}
		tasks = append(tasks, ExpandedTask{
			Title:       bp.Title,
			Description: bp.Description,
			Priority:    priority,
		})
	}

	return e.store.CreateProjectWithTasks(ctx, p, tasks)
}
