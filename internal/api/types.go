package api

import "time"

// Category is a read-only projection of a remote category record.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Task is a read-only projection of a remote task record.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedDate time.Time  `json:"created_date"`
	Categories  []Category `json:"categories"`
	IsOverdue   bool       `json:"is_overdue"`
}

// TaskDraft carries the fields required to construct a create-task request.
// CategoryNames must reference categories that already exist remotely; the
// conversational layer validates them before submission.
type TaskDraft struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Completed     bool       `json:"completed"`
	DueDate       *time.Time `json:"due_date"`
	CategoryNames []string   `json:"category_names"`
}
