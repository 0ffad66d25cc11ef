package dialog

import (
	"time"

	"github.com/m3rciful/todobot/internal/api"
)

// State identifies the step a user's dialogue is waiting on.
type State string

const (
	StateIdle              State = "idle"
	StateAwaitTitle        State = "awaiting_task_title"
	StateAwaitDescription  State = "awaiting_task_description"
	StateAwaitDueDate      State = "awaiting_due_date"
	StateAwaitCategories   State = "awaiting_categories"
	StateAwaitTaskNumber   State = "awaiting_task_number"
	StateAwaitCategoryName State = "awaiting_category_name"
	StateAwaitCategoryNum  State = "awaiting_category_number"
)

// SkipMarker skips an optional step when sent as the whole message.
const SkipMarker = "-"

// Context accumulates the answers of one multi-step dialogue. It never
// outlives the state that created it: clearing the state drops the context.
type Context struct {
	StartedAt time.Time

	// add-task flow
	Title       string
	Description string
	DueDate     *time.Time

	// deletion flows: the numbered listing shown to the user, cached so
	// the index the user replies with maps onto a stable snapshot.
	Tasks      []api.Task
	Categories []api.Category
}
