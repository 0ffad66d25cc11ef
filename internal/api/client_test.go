package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL+"/api", 5*time.Second), srv
}

func TestListTasksBareArray(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"t1","title":"first"},{"id":"t2","title":"second"}]`))
	})
	defer srv.Close()

	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
}

func TestListTasksResultsEnvelope(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":"t1","title":"only"}]}`))
	})
	defer srv.Close()

	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "only", tasks[0].Title)
}

func TestListTasksMalformedBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
	})
	defer srv.Close()

	_, err := client.ListTasks(context.Background())
	require.Error(t, err)
	failure, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailureMalformed, failure.Kind)
}

func TestFailureClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   FailureKind
	}{
		{"bad request", http.StatusBadRequest, FailureClient},
		{"not found", http.StatusNotFound, FailureClient},
		{"server error", http.StatusInternalServerError, FailureServer},
		{"bad gateway", http.StatusBadGateway, FailureServer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"detail":"nope"}`))
			})
			defer srv.Close()

			_, err := client.ListTasks(context.Background())
			require.Error(t, err)
			failure, ok := AsFailure(err)
			require.True(t, ok)
			assert.Equal(t, tc.kind, failure.Kind)
			assert.Equal(t, tc.status, failure.Status)
			assert.Equal(t, "nope", failure.Message)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close() // connection refused from here on

	client := New(base+"/api", 2*time.Second)
	_, err := client.ListTasks(context.Background())
	require.Error(t, err)
	failure, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailureTransport, failure.Kind)
	assert.Zero(t, failure.Status)
}

func TestCreateTaskPayload(t *testing.T) {
	due := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	var body map[string]any
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"t9","title":"Buy milk"}`))
	})
	defer srv.Close()

	task, err := client.CreateTask(context.Background(), TaskDraft{
		Title:         "Buy milk",
		DueDate:       &due,
		CategoryNames: []string{"errands"},
	})
	require.NoError(t, err)
	assert.Equal(t, "t9", task.ID)

	assert.Equal(t, "Buy milk", body["title"])
	assert.Equal(t, false, body["completed"])
	assert.Equal(t, []any{"errands"}, body["category_names"])
	assert.NotNil(t, body["due_date"])
}

func TestCreateTaskNilCategoryNamesSentAsEmptyList(t *testing.T) {
	var body map[string]any
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"t1"}`))
	})
	defer srv.Close()

	_, err := client.CreateTask(context.Background(), TaskDraft{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, []any{}, body["category_names"])
	assert.Nil(t, body["due_date"])
}

func TestDeleteTaskUsesPostAction(t *testing.T) {
	var gotMethod, gotPath string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Task deleted successfully"}`))
	})
	defer srv.Close()

	require.NoError(t, client.DeleteTask(context.Background(), "abc_123"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/tasks/abc_123/delete_task/", gotPath)
}

func TestCategoryExists(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/check_category/", r.URL.Path)
		name := r.URL.Query().Get("name")
		w.Header().Set("Content-Type", "application/json")
		if name == "Work" {
			_, _ = w.Write([]byte(`{"exists":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"exists":false}`))
	})
	defer srv.Close()

	exists, err := client.CategoryExists(context.Background(), "Work")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.CategoryExists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFailureNotFound(t *testing.T) {
	f := &Failure{Kind: FailureClient, Status: 404}
	assert.True(t, f.NotFound())
	assert.False(t, (&Failure{Kind: FailureClient, Status: 400}).NotFound())
	assert.False(t, (&Failure{Kind: FailureServer, Status: 404}).NotFound())
}
