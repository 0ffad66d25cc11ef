package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/todobot/internal/api"
)

type mockStorage struct {
	tasks      []api.Task
	categories []api.Category

	createdTask    *NewTask
	deletedTaskID  string
	createdCatName string
	deleteTaskErr  error
	createCatErr   error
	deleteCatErr   error
	listErr        error
}

func (m *mockStorage) ListTasks(context.Context) ([]api.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.tasks == nil {
		return []api.Task{}, nil
	}
	return m.tasks, nil
}

func (m *mockStorage) CreateTask(_ context.Context, t NewTask) (*api.Task, error) {
	m.createdTask = &t
	return &api.Task{
		ID:         GeneratePK(),
		Title:      t.Title,
		DueDate:    t.DueDate,
		Categories: []api.Category{},
	}, nil
}

func (m *mockStorage) DeleteTask(_ context.Context, id string) error {
	if m.deleteTaskErr != nil {
		return m.deleteTaskErr
	}
	m.deletedTaskID = id
	return nil
}

func (m *mockStorage) ListCategories(context.Context) ([]api.Category, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.categories == nil {
		return []api.Category{}, nil
	}
	return m.categories, nil
}

func (m *mockStorage) CategoryExists(_ context.Context, name string) (bool, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStorage) CreateCategory(_ context.Context, name, color string) (*api.Category, error) {
	if m.createCatErr != nil {
		return nil, m.createCatErr
	}
	m.createdCatName = name
	if color == "" {
		color = DefaultCategoryColor
	}
	return &api.Category{ID: GeneratePK(), Name: name, Color: color}, nil
}

func (m *mockStorage) DeleteCategory(_ context.Context, id string) error {
	return m.deleteCatErr
}

func doRequest(t *testing.T, srv *Server, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListTasksEndpoint(t *testing.T) {
	st := &mockStorage{tasks: []api.Task{{ID: "a", Title: "first"}}}
	rec := doRequest(t, NewServer(st), http.MethodGet, "/api/tasks/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []api.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].Title)
}

func TestCreateTaskEndpoint(t *testing.T) {
	st := &mockStorage{}
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	rec := doRequest(t, NewServer(st), http.MethodPost, "/api/tasks/", map[string]any{
		"title":          "  Buy milk ",
		"description":    "2 liters",
		"due_date":       due.Format(time.RFC3339),
		"category_names": []string{"errands"},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, st.createdTask)
	assert.Equal(t, "Buy milk", st.createdTask.Title)
	assert.Equal(t, "2 liters", st.createdTask.Description)
	assert.Equal(t, []string{"errands"}, st.createdTask.CategoryNames)
	require.NotNil(t, st.createdTask.DueDate)
	assert.True(t, st.createdTask.DueDate.Equal(due))
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	rec := doRequest(t, NewServer(&mockStorage{}), http.MethodPost, "/api/tasks/", map[string]any{
		"description": "no title",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTaskDueDateValidation(t *testing.T) {
	st := &mockStorage{}
	srv := NewServer(st)

	// Yesterday is rejected at day granularity.
	rec := doRequest(t, srv, http.MethodPost, "/api/tasks/", map[string]any{
		"title":    "late",
		"due_date": time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, st.createdTask)

	// Earlier today is still fine.
	rec = doRequest(t, srv, http.MethodPost, "/api/tasks/", map[string]any{
		"title":    "today",
		"due_date": startOfDay(time.Now()).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteTaskEndpoint(t *testing.T) {
	st := &mockStorage{}
	rec := doRequest(t, NewServer(st), http.MethodPost, "/api/tasks/abc/delete_task/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", st.deletedTaskID)
	assert.Contains(t, rec.Body.String(), "Task deleted successfully")
}

func TestDeleteTaskNotFound(t *testing.T) {
	st := &mockStorage{deleteTaskErr: ErrNotFound}
	rec := doRequest(t, NewServer(st), http.MethodPost, "/api/tasks/zzz/delete_task/", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task not found")
}

func TestListCategoriesEndpoint(t *testing.T) {
	st := &mockStorage{categories: []api.Category{{ID: "c1", Name: "home", Color: DefaultCategoryColor}}}
	rec := doRequest(t, NewServer(st), http.MethodGet, "/api/categories/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var cats []api.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "home", cats[0].Name)
}

func TestCheckCategoryEndpoint(t *testing.T) {
	st := &mockStorage{categories: []api.Category{{Name: "work"}}}
	srv := NewServer(st)

	rec := doRequest(t, srv, http.MethodGet, "/api/categories/check_category/?name=work", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"exists":true}`, rec.Body.String())

	rec = doRequest(t, srv, http.MethodGet, "/api/categories/check_category/?name=absent", nil)
	assert.JSONEq(t, `{"exists":false}`, rec.Body.String())

	// A blank name never exists.
	rec = doRequest(t, srv, http.MethodGet, "/api/categories/check_category/", nil)
	assert.JSONEq(t, `{"exists":false}`, rec.Body.String())
}

func TestCreateCategoryEndpoint(t *testing.T) {
	st := &mockStorage{}
	rec := doRequest(t, NewServer(st), http.MethodPost, "/api/categories/create_category/", map[string]any{
		"name": "work",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "work", st.createdCatName)
	var cat api.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.Equal(t, DefaultCategoryColor, cat.Color)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	st := &mockStorage{createCatErr: ErrDuplicateCategory}
	rec := doRequest(t, NewServer(st), http.MethodPost, "/api/categories/create_category/", map[string]any{
		"name": "work",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestCreateCategoryBlankName(t *testing.T) {
	rec := doRequest(t, NewServer(&mockStorage{}), http.MethodPost, "/api/categories/create_category/", map[string]any{
		"name": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	st := &mockStorage{deleteCatErr: ErrNotFound}
	rec := doRequest(t, NewServer(st), http.MethodPost, "/api/categories/c9/delete_category/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorageErrorsSurfaceAs500(t *testing.T) {
	st := &mockStorage{listErr: assert.AnError}
	rec := doRequest(t, NewServer(st), http.MethodGet, "/api/tasks/", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGeneratePKShape(t *testing.T) {
	id := GeneratePK()
	assert.Regexp(t, `^\d+_[0-9a-f]{16}$`, id)
	assert.LessOrEqual(t, len(id), 50)
	assert.NotEqual(t, id, GeneratePK())
}
