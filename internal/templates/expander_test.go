package templates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	template  *Template
	getErr    error
	createErr error

	createCalls int
	gotParams   NewProjectParams
	gotTasks    []ExpandedTask
}

func (f *fakeStore) Get(_ context.Context, id int64) (*Template, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.template, nil
}

func (f *fakeStore) CreateProjectWithTasks(_ context.Context, p NewProjectParams, tasks []ExpandedTask) (int64, error) {
	f.createCalls++
	f.gotParams = p
	f.gotTasks = tasks
	if f.createErr != nil {
		return 0, f.createErr
	}
	return 42, nil
}

func ptr[T any](v T) *T { return &v }

func TestExpander_CreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("expands template tasks in order", func(t *testing.T) {
		store := &fakeStore{template: &Template{
			ID:   7,
			Name: "Brand identity",
			Structure: []byte(`{"tasks":[
				{"title":"Discovery","description":"Client interview","priority":"high"},
				{"title":"Concepts"},
				{"title":"Delivery","priority":"low"}
			]}`),
		}}

		due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		id, err := NewExpander(store).CreateProject(ctx, 7, NewProjectParams{
			ClientID: ptr(int64(3)),
			Name:     "Acme rebrand",
			DueDate:  &due,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)

		require.Equal(t, 1, store.createCalls)
		assert.Equal(t, "Acme rebrand", store.gotParams.Name)
		require.Len(t, store.gotTasks, 3)
		assert.Equal(t, "Discovery", store.gotTasks[0].Title)
		assert.Equal(t, "high", store.gotTasks[0].Priority)
		assert.Equal(t, "Concepts", store.gotTasks[1].Title)
		assert.Equal(t, "medium", store.gotTasks[1].Priority)
		assert.Equal(t, "Delivery", store.gotTasks[2].Title)
		assert.Equal(t, "low", store.gotTasks[2].Priority)
	})

	t.Run("template with no tasks creates a bare project", func(t *testing.T) {
		store := &fakeStore{template: &Template{ID: 7, Name: "Empty", Structure: []byte(`{}`)}}

		id, err := NewExpander(store).CreateProject(ctx, 7, NewProjectParams{
			ClientID: ptr(int64(3)),
			Name:     "Bare project",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.Empty(t, store.gotTasks)
	})

	t.Run("missing client or name writes nothing", func(t *testing.T) {
		store := &fakeStore{template: &Template{ID: 7, Structure: []byte(`{}`)}}
		exp := NewExpander(store)

		_, err := exp.CreateProject(ctx, 7, NewProjectParams{Name: "No client"})
		assert.ErrorIs(t, err, ErrInvalidProject)

		_, err = exp.CreateProject(ctx, 7, NewProjectParams{ClientID: ptr(int64(3)), Name: "   "})
		assert.ErrorIs(t, err, ErrInvalidProject)

		assert.Zero(t, store.createCalls)
	})

	t.Run("missing template writes nothing", func(t *testing.T) {
		store := &fakeStore{getErr: ErrNotFound}

		_, err := NewExpander(store).CreateProject(ctx, 99, NewProjectParams{
			ClientID: ptr(int64(3)),
			Name:     "Orphan",
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, store.createCalls)
	})

	t.Run("corrupt structure writes nothing", func(t *testing.T) {
		store := &fakeStore{template: &Template{ID: 7, Structure: []byte(`{"tasks":`)}}

		_, err := NewExpander(store).CreateProject(ctx, 7, NewProjectParams{
			ClientID: ptr(int64(3)),
			Name:     "Corrupt",
		})
		assert.ErrorIs(t, err, ErrBadStructure)
		assert.Zero(t, store.createCalls)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		boom := errors.New("insert failed")
		store := &fakeStore{
			template:  &Template{ID: 7, Structure: []byte(`{"tasks":[{"title":"Only"}]}`)},
			createErr: boom,
		}

		_, err := NewExpander(store).CreateProject(ctx, 7, NewProjectParams{
			ClientID: ptr(int64(3)),
			Name:     "Doomed",
		})
		assert.ErrorIs(t, err, boom)
	})
}
