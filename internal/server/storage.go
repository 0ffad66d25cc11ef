package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/m3rciful/todobot/internal/api"
)

// DefaultCategoryColor is assigned to categories created without an explicit
// color.
const DefaultCategoryColor = "#007bff"

var (
	// ErrNotFound marks a lookup for a record that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateCategory marks a unique-name violation on categories.
	ErrDuplicateCategory = errors.New("category already exists")
)

// NewTask carries the validated fields of a create-task request.
type NewTask struct {
	Title         string
	Description   string
	Completed     bool
	DueDate       *time.Time
	CategoryIDs   []string
	CategoryNames []string
}

// Storage is the persistence surface the HTTP handlers depend on.
type Storage interface {
	ListTasks(ctx context.Context) ([]api.Task, error)
	CreateTask(ctx context.Context, t NewTask) (*api.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]api.Category, error)
	CategoryExists(ctx context.Context, name string) (bool, error)
	CreateCategory(ctx context.Context, name, color string) (*api.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// PostgresStorage implements Storage on top of sqlx.
type PostgresStorage struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPostgresStorage(db *sqlx.DB) *PostgresStorage {
	return &PostgresStorage{db: db, now: time.Now}
}

type taskRow struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Completed   bool       `db:"completed"`
	DueDate     *time.Time `db:"due_date"`
	CreatedDate time.Time  `db:"created_date"`
}

type categoryRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Color string `db:"color"`
}

type taskCategoryRow struct {
	TaskID string `db:"task_id"`
	categoryRow
}

func (r taskRow) toAPI(cats []api.Category, now time.Time) api.Task {
	task := api.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		CreatedDate: r.CreatedDate,
		Categories:  cats,
	}
	if task.Categories == nil {
		task.Categories = []api.Category{}
	}
	task.IsOverdue = r.DueDate != nil && !r.Completed && r.DueDate.Before(now)
	return task
}

func (r categoryRow) toAPI() api.Category {
	return api.Category{ID: r.ID, Name: r.Name, Color: r.Color}
}

// ListTasks returns all tasks newest-first with their categories attached.
func (s *PostgresStorage) ListTasks(ctx context.Context) ([]api.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, title, description, completed, due_date, created_date
		 FROM tasks ORDER BY created_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if len(rows) == 0 {
		return []api.Task{}, nil
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	var joins []taskCategoryRow
	err = s.db.SelectContext(ctx, &joins,
		`SELECT tc.task_id, c.id, c.name, c.color
		 FROM task_categories tc
		 JOIN categories c ON c.id = tc.category_id
		 WHERE tc.task_id = ANY($1)
		 ORDER BY c.name`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list task categories: %w", err)
	}
	byTask := make(map[string][]api.Category)
	for _, j := range joins {
		byTask[j.TaskID] = append(byTask[j.TaskID], j.categoryRow.toAPI())
	}

	now := s.now()
	tasks := make([]api.Task, len(rows))
	for i, r := range rows {
		tasks[i] = r.toAPI(byTask[r.ID], now)
	}
	return tasks, nil
}

// CreateTask inserts a task and attaches its categories inside one
// transaction. Category names that do not exist yet are created with the
// default color; the name match is case-insensitive.
func (s *PostgresStorage) CreateTask(ctx context.Context, t NewTask) (*api.Task, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := taskRow{
		ID:          GeneratePK(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		CreatedDate: s.now(),
	}
	_, err = tx.NamedExecContext(ctx,
		`INSERT INTO tasks (id, title, description, completed, due_date, created_date)
		 VALUES (:id, :title, :description, :completed, :due_date, :created_date)`, row)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	var cats []api.Category
	seen := make(map[string]struct{})

	if len(t.CategoryIDs) > 0 {
		var found []categoryRow
		err = tx.SelectContext(ctx, &found,
			`SELECT id, name, color FROM categories WHERE id = ANY($1)`, pq.Array(t.CategoryIDs))
		if err != nil {
			return nil, fmt.Errorf("select categories by id: %w", err)
		}
		for _, cr := range found {
			if _, dup := seen[cr.ID]; dup {
				continue
			}
			seen[cr.ID] = struct{}{}
			cats = append(cats, cr.toAPI())
		}
	}

	for _, name := range t.CategoryNames {
		cat, err := getOrCreateCategory(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[cat.ID]; dup {
			continue
		}
		seen[cat.ID] = struct{}{}
		cats = append(cats, *cat)
	}

	for _, cat := range cats {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO task_categories (task_id, category_id) VALUES ($1, $2)`, row.ID, cat.ID)
		if err != nil {
			return nil, fmt.Errorf("attach category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	task := row.toAPI(cats, s.now())
	return &task, nil
}

func getOrCreateCategory(ctx context.Context, tx *sqlx.Tx, name string) (*api.Category, error) {
	var cr categoryRow
	err := tx.GetContext(ctx, &cr,
		`SELECT id, name, color FROM categories WHERE lower(name) = lower($1)`, name)
	switch {
	case err == nil:
		cat := cr.toAPI()
		return &cat, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("select category: %w", err)
	}

	cat := api.Category{ID: GeneratePK(), Name: name, Color: DefaultCategoryColor}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO categories (id, name, color) VALUES ($1, $2, $3)`, cat.ID, cat.Name, cat.Color)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &cat, nil
}

// DeleteTask removes a task; join rows go with it via ON DELETE CASCADE.
func (s *PostgresStorage) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (s *PostgresStorage) ListCategories(ctx context.Context) ([]api.Category, error) {
	var rows []categoryRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	cats := make([]api.Category, len(rows))
	for i, r := range rows {
		cats[i] = r.toAPI()
	}
	return cats, nil
}

// CategoryExists checks a name case-insensitively.
func (s *PostgresStorage) CategoryExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1))`, name)
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return exists, nil
}

// CreateCategory inserts a category, surfacing unique-name violations as
// ErrDuplicateCategory.
func (s *PostgresStorage) CreateCategory(ctx context.Context, name, color string) (*api.Category, error) {
	if color == "" {
		color = DefaultCategoryColor
	}
	cat := api.Category{ID: GeneratePK(), Name: name, Color: color}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, color) VALUES ($1, $2, $3)`, cat.ID, cat.Name, cat.Color)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateCategory
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &cat, nil
}

// DeleteCategory removes a category and detaches it from tasks via cascade.
func (s *PostgresStorage) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
