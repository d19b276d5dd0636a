package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"opportunity-alerts/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// callRecorder counts requests by "METHOD path" so upsert tests can
// assert exactly-one-create / exactly-one-update.
type callRecorder struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCallRecorder() *callRecorder {
	return &callRecorder{calls: make(map[string]int)}
}

func (r *callRecorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[req.Method+" "+req.URL.Path]++
}

func (r *callRecorder) count(method, path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method+" "+path]
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zap.NewNop()), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetProfileNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, ErrorResponse{Detail: "Not found."})
	}))

	_, err := client.GetProfile(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProfile(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/profiles/alice/", r.URL.Path)
		writeJSON(t, w, http.StatusOK, models.UserProfile{
			Username:           "alice",
			NotificationMethod: models.MethodEmail,
			Email:              "alice@example.com",
		})
	}))

	profile, err := client.GetProfile(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, models.MethodEmail, profile.NotificationMethod)
}

func TestUpsertProfileUpdatesExisting(t *testing.T) {
	rec := newCallRecorder()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		require.Equal(t, http.MethodPut, r.Method)
		writeJSON(t, w, http.StatusOK, models.UserProfile{Username: "alice"})
	}))

	_, err := client.UpsertProfile(context.Background(), models.UserProfile{Username: "alice"})

	require.NoError(t, err)
	assert.Equal(t, 1, rec.count(http.MethodPut, "/users/profiles/alice/"))
	assert.Equal(t, 0, rec.count(http.MethodPost, "/users/profiles/"))
}

func TestUpsertProfileCreatesOnNotFound(t *testing.T) {
	rec := newCallRecorder()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		switch r.Method {
		case http.MethodPut:
			writeJSON(t, w, http.StatusNotFound, ErrorResponse{Detail: "Not found."})
		case http.MethodPost:
			writeJSON(t, w, http.StatusCreated, models.UserProfile{Username: "alice"})
		}
	}))

	saved, err := client.UpsertProfile(context.Background(), models.UserProfile{Username: "alice"})

	require.NoError(t, err)
	assert.Equal(t, "alice", saved.Username)
	assert.Equal(t, 1, rec.count(http.MethodPut, "/users/profiles/alice/"))
	assert.Equal(t, 1, rec.count(http.MethodPost, "/users/profiles/"))
}

func TestUpsertProfileDoesNotCreateOnTransportFailure(t *testing.T) {
	rec := newCallRecorder()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.UpsertProfile(context.Background(), models.UserProfile{Username: "alice"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, rec.count(http.MethodPost, "/users/profiles/"), "a 5xx must never fall through to create")
}

func TestGetNoteFirstMatchWins(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "alice", r.URL.Query().Get("user_profile"))
		assert.Equal(t, "5", r.URL.Query().Get("opportunity"))
		writeJSON(t, w, http.StatusOK, []models.UserOpportunityNote{
			{UserProfile: "alice", Opportunity: 5, Notes: "first"},
			{UserProfile: "alice", Opportunity: 5, Notes: "second"},
		})
	}))

	note, err := client.GetNote(context.Background(), "alice", 5)

	require.NoError(t, err)
	assert.Equal(t, "first", note.Notes)
}

func TestGetNoteEmptyListIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.UserOpportunityNote{})
	}))

	_, err := client.GetNote(context.Background(), "alice", 5)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertNoteCreatesWhenAbsent(t *testing.T) {
	rec := newCallRecorder()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, []models.UserOpportunityNote{})
		case http.MethodPost:
			var note models.UserOpportunityNote
			require.NoError(t, json.NewDecoder(r.Body).Decode(&note))
			writeJSON(t, w, http.StatusCreated, note)
		}
	}))

	saved, err := client.UpsertNote(context.Background(), models.UserOpportunityNote{
		UserProfile: "a",
		Opportunity: 5,
		Notes:       "remember to apply",
	})

	require.NoError(t, err)
	assert.Equal(t, "a_5", saved.Key())
	assert.Equal(t, 1, rec.count(http.MethodPost, "/users/notes/"))
	assert.Equal(t, 0, rec.count(http.MethodPut, "/users/notes/a_5/"))
}

func TestUpsertNoteUpdatesExisting(t *testing.T) {
	rec := newCallRecorder()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, []models.UserOpportunityNote{
				{UserProfile: "a", Opportunity: 5, Notes: "old"},
			})
		case http.MethodPut:
			var note models.UserOpportunityNote
			require.NoError(t, json.NewDecoder(r.Body).Decode(&note))
			writeJSON(t, w, http.StatusOK, note)
		}
	}))

	saved, err := client.UpsertNote(context.Background(), models.UserOpportunityNote{
		UserProfile: "a",
		Opportunity: 5,
		Notes:       "new",
	})

	require.NoError(t, err)
	assert.Equal(t, "new", saved.Notes)
	assert.Equal(t, 1, rec.count(http.MethodPut, "/users/notes/a_5/"))
	assert.Equal(t, 0, rec.count(http.MethodPost, "/users/notes/"))
}

func TestUpsertNotePropagatesLookupFailure(t *testing.T) {
	rec := newCallRecorder()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.UpsertNote(context.Background(), models.UserOpportunityNote{
		UserProfile: "a",
		Opportunity: 5,
	})

	require.Error(t, err)
	assert.Equal(t, 0, rec.count(http.MethodPost, "/users/notes/"), "lookup failure must not create a duplicate")
}

func TestListOpportunitiesPaginatedEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Job", r.URL.Query().Get("type"))
		assert.Equal(t, "go", r.URL.Query().Get("search"))
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"count":    12,
			"next":     "http://example/api/opportunities/?page=2",
			"previous": nil,
			"results": []models.Opportunity{
				{ID: 1, Title: "Backend Engineer", Type: models.TypeJob, Deadline: "2025-07-01"},
			},
		})
	}))

	page, err := client.ListOpportunities(context.Background(), SearchParams{Search: "go", Type: "Job"})

	require.NoError(t, err)
	assert.Equal(t, 12, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Backend Engineer", page.Results[0].Title)
}

func TestListOpportunitiesBareArray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []models.Opportunity{
			{ID: 1, Title: "Summer Internship", Type: models.TypeInternship},
			{ID: 2, Title: "GopherCon", Type: models.TypeConference},
		})
	}))

	page, err := client.ListOpportunities(context.Background(), SearchParams{})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	assert.Len(t, page.Results, 2)
}

func TestListUpcomingBuildsDateWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-06-15", r.URL.Query().Get("deadline_start"))
		assert.Equal(t, "2025-06-22", r.URL.Query().Get("deadline_end"))
		assert.Equal(t, "deadline", r.URL.Query().Get("ordering"))
		writeJSON(t, w, http.StatusOK, []models.Opportunity{})
	}))

	_, err := client.ListUpcoming(context.Background(), now, 7)

	require.NoError(t, err)
}

func TestDeleteOpportunity(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/opportunities/7/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.DeleteOpportunity(context.Background(), 7))
}

func TestBadRequestSurfacesDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, ErrorResponse{Detail: "deadline is required"})
	}))

	_, err := client.CreateOpportunity(context.Background(), models.OpportunityForm{Title: "x"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "deadline is required")
}
