package dialog

import "github.com/m3rciful/todobot/internal/api"

// OutcomeKind is the closed set of results a dialogue turn can produce.
type OutcomeKind string

const (
	// OutcomePrompt asks the user for the next piece of input.
	OutcomePrompt OutcomeKind = "prompt"
	// OutcomeSuccess means a remote operation completed and the dialogue ended.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeValidationFailed means the input was rejected locally.
	OutcomeValidationFailed OutcomeKind = "validation_failed"
	// OutcomeOperationFailed means a remote operation failed and the dialogue ended.
	OutcomeOperationFailed OutcomeKind = "operation_failed"
	// OutcomeCleared means the dialogue was cancelled.
	OutcomeCleared OutcomeKind = "cleared"
)

// Step names the prompt an OutcomePrompt is asking for.
type Step string

const (
	StepTitle          Step = "title"
	StepDescription    Step = "description"
	StepDueDate        Step = "due_date"
	StepCategories     Step = "categories"
	StepTaskNumber     Step = "task_number"
	StepCategoryName   Step = "category_name"
	StepCategoryNumber Step = "category_number"
)

// Reason names why an OutcomeValidationFailed rejected the input.
type Reason string

const (
	ReasonEmptyTitle        Reason = "empty_title"
	ReasonEmptyCategoryName Reason = "empty_category_name"
	ReasonBadDate           Reason = "bad_date"
	ReasonPastDate          Reason = "past_date"
	ReasonBadNumber         Reason = "bad_number"
	ReasonNumberOutOfRange  Reason = "number_out_of_range"
	ReasonMissingCategories Reason = "missing_categories"
	ReasonDuplicateCategory Reason = "duplicate_category"
	ReasonNoTasks           Reason = "no_tasks"
	ReasonNoCategories      Reason = "no_categories"
)

// Op names the remote operation a success or failure outcome refers to.
type Op string

const (
	OpCreateTask     Op = "create_task"
	OpDeleteTask     Op = "delete_task"
	OpCreateCategory Op = "create_category"
	OpDeleteCategory Op = "delete_category"
	OpListTasks      Op = "list_tasks"
	OpListCategories Op = "list_categories"
)

// Outcome is what the engine hands back to the presentation layer after a
// turn. It carries structured data only; rendering text is someone else's job.
type Outcome struct {
	Kind OutcomeKind

	// Step is set for OutcomePrompt.
	Step Step
	// Reason is set for OutcomeValidationFailed.
	Reason Reason
	// Op is set for OutcomeSuccess and OutcomeOperationFailed.
	Op Op
	// Failure carries the classified remote error for OutcomeOperationFailed.
	Failure *api.Failure

	// Payloads for prompts and summaries.
	Task       *api.Task
	Tasks      []api.Task
	Categories []api.Category
	// Names lists category names: the missing ones for
	// ReasonMissingCategories, the attached ones on task creation.
	Names []string
	// Title is the affected record's display name on deletions and the
	// duplicate name on ReasonDuplicateCategory.
	Title string
}

// Active reports whether the dialogue continues after this outcome. Only
// prompts and recoverable validation failures keep the flow open.
func (o Outcome) Active() bool {
	switch o.Kind {
	case OutcomePrompt:
		return true
	case OutcomeValidationFailed:
		switch o.Reason {
		case ReasonEmptyTitle, ReasonEmptyCategoryName, ReasonBadDate, ReasonPastDate,
			ReasonBadNumber, ReasonNumberOutOfRange:
			return true
		}
	}
	return false
}
