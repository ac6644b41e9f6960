package timetracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	entries  []Entry
	entry    *Entry
	startErr error
	stopErr  error
	err      error

	stoppedID int64
}

func (f *fakeController) List(context.Context) ([]Entry, error) { return f.entries, f.err }

func (f *fakeController) Start(_ context.Context, p StartParams) (*Entry, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.entry, nil
}

func (f *fakeController) Stop(_ context.Context, id int64) (*Entry, error) {
	f.stoppedID = id
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	return f.entry, nil
}

func (f *fakeController) Create(_ context.Context, p EntryParams) (*Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entry, nil
}

func (f *fakeController) Update(_ context.Context, id int64, p EntryParams) (*Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entry, nil
}

func (f *fakeController) Delete(context.Context, int64) error { return f.err }

func newTestRouter(ctrl Controller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/time-entries"), ctrl, nil)
	return r
}

func TestTimerStart(t *testing.T) {
	t.Run("starts a timer", func(t *testing.T) {
		projectID := int64(5)
		ctrl := &fakeController{entry: &Entry{ID: 1, ProjectID: &projectID, StartTime: time.Now()}}
		r := newTestRouter(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/time-entries/start",
			strings.NewReader(`{"project_id":5}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var got Entry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(1), got.ID)
		assert.Nil(t, got.EndTime)
	})

	t.Run("second active timer is rejected", func(t *testing.T) {
		ctrl := &fakeController{startErr: ErrTimerRunning}
		r := newTestRouter(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/time-entries/start",
			strings.NewReader(`{"project_id":5}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already an active timer")
	})

	t.Run("missing project is rejected", func(t *testing.T) {
		ctrl := &fakeController{startErr: ErrInvalidEntry}
		r := newTestRouter(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/time-entries/start", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTimerStop(t *testing.T) {
	t.Run("stops the entry it was asked to", func(t *testing.T) {
		end := time.Now()
		dur := 25
		ctrl := &fakeController{entry: &Entry{ID: 9, StartTime: end.Add(-25 * time.Minute), EndTime: &end, Duration: &dur}}
		r := newTestRouter(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/time-entries/9/stop", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(9), ctrl.stoppedID)

		var got Entry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.Duration)
		assert.Equal(t, 25, *got.Duration)
	})

	t.Run("stopping a stopped entry is rejected", func(t *testing.T) {
		ctrl := &fakeController{stopErr: ErrAlreadyStopped}
		r := newTestRouter(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/time-entries/9/stop", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing entry is 404", func(t *testing.T) {
		ctrl := &fakeController{stopErr: ErrNotFound}
		r := newTestRouter(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/time-entries/9/stop", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEntryCreate(t *testing.T) {
	t.Run("open-ended manual entry is rejected", func(t *testing.T) {
		ctrl := &fakeController{err: ErrInvalidEntry}
		r := newTestRouter(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/time-entries",
			strings.NewReader(`{"project_id":5,"start_time":"2026-03-15T09:00:00Z"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
