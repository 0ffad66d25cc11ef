package dialog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/todobot/core/logger"
	"github.com/m3rciful/todobot/internal/api"
)

// API is the slice of the persistence client the engine needs.
type API interface {
	ListTasks(ctx context.Context) ([]api.Task, error)
	CreateTask(ctx context.Context, draft api.TaskDraft) (*api.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]api.Category, error)
	CategoryExists(ctx context.Context, name string) (bool, error)
	CreateCategory(ctx context.Context, name string) (*api.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Engine drives the multi-step dialogues. All user-visible text lives in the
// render layer; the engine deals in states, contexts and outcomes only.
type Engine struct {
	store *Store
	api   API
	now   func() time.Time
}

func NewEngine(store *Store, client API) *Engine {
	return &Engine{store: store, api: client, now: time.Now}
}

// Acquire serialises message handling for one user. Telebot runs every
// handler in its own goroutine, so the message router holds this lock across
// the in-progress check and the dispatch it leads to; otherwise a second
// message could observe a stale idle state mid-transition and misroute.
func (e *Engine) Acquire(userID int64) func() {
	return e.store.Acquire(userID)
}

// InProgress reports whether the user has an active dialogue.
func (e *Engine) InProgress(userID int64) bool {
	return e.store.InProgress(userID)
}

// Cancel aborts any active dialogue and returns the user to idle. Cancelling
// an idle user yields the same outcome.
func (e *Engine) Cancel(userID int64) Outcome {
	state, _ := e.store.Get(userID)
	e.store.Clear(userID)
	logger.Dialog.Debug("cancel", slog.Int64("user_id", userID), slog.String("state", string(state)))
	return Outcome{Kind: OutcomeCleared}
}

// StartAddTask opens the add-task dialogue.
func (e *Engine) StartAddTask(ctx context.Context, userID int64) Outcome {
	e.store.Set(userID, StateAwaitTitle, &Context{StartedAt: e.now()})
	e.logTransition(userID, StateIdle, StateAwaitTitle)
	return Outcome{Kind: OutcomePrompt, Step: StepTitle}
}

// StartDeleteTask fetches the task list and opens the delete-task dialogue.
// With nothing to delete, or when the listing fails, the user stays idle.
func (e *Engine) StartDeleteTask(ctx context.Context, userID int64) Outcome {
	tasks, err := e.api.ListTasks(ctx)
	if err != nil {
		return e.operationFailed(userID, OpListTasks, err)
	}
	if len(tasks) == 0 {
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonNoTasks}
	}
	e.store.Set(userID, StateAwaitTaskNumber, &Context{StartedAt: e.now(), Tasks: tasks})
	e.logTransition(userID, StateIdle, StateAwaitTaskNumber)
	return Outcome{Kind: OutcomePrompt, Step: StepTaskNumber, Tasks: tasks}
}

// StartAddCategory opens the add-category dialogue.
func (e *Engine) StartAddCategory(ctx context.Context, userID int64) Outcome {
	e.store.Set(userID, StateAwaitCategoryName, &Context{StartedAt: e.now()})
	e.logTransition(userID, StateIdle, StateAwaitCategoryName)
	return Outcome{Kind: OutcomePrompt, Step: StepCategoryName}
}

// StartDeleteCategory fetches categories and opens the delete-category
// dialogue.
func (e *Engine) StartDeleteCategory(ctx context.Context, userID int64) Outcome {
	cats, err := e.api.ListCategories(ctx)
	if err != nil {
		return e.operationFailed(userID, OpListCategories, err)
	}
	if len(cats) == 0 {
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonNoCategories}
	}
	e.store.Set(userID, StateAwaitCategoryNum, &Context{StartedAt: e.now(), Categories: cats})
	e.logTransition(userID, StateIdle, StateAwaitCategoryNum)
	return Outcome{Kind: OutcomePrompt, Step: StepCategoryNumber, Categories: cats}
}

type stepFunc func(e *Engine, ctx context.Context, userID int64, dctx *Context, input string) Outcome

var steps = map[State]stepFunc{
	StateAwaitTitle:        (*Engine).stepTitle,
	StateAwaitDescription:  (*Engine).stepDescription,
	StateAwaitDueDate:      (*Engine).stepDueDate,
	StateAwaitCategories:   (*Engine).stepCategories,
	StateAwaitTaskNumber:   (*Engine).stepTaskNumber,
	StateAwaitCategoryName: (*Engine).stepCategoryName,
	StateAwaitCategoryNum:  (*Engine).stepCategoryNumber,
}

// HandleInput feeds one message into the user's active dialogue. The caller
// owns the turn lock (Acquire); turns for one user never run concurrently.
func (e *Engine) HandleInput(ctx context.Context, userID int64, input string) Outcome {
	state, dctx := e.store.Get(userID)
	step, ok := steps[state]
	if !ok || dctx == nil {
		// No dialogue in flight; nothing to do with free text here.
		e.store.Clear(userID)
		return Outcome{Kind: OutcomeCleared}
	}

	out := step(e, ctx, userID, dctx, strings.TrimSpace(input))
	if logger.ShouldSampleDebug() {
		logger.Dialog.Debug("turn",
			slog.Int64("user_id", userID),
			slog.String("state", string(state)),
			slog.String("outcome", string(out.Kind)),
		)
	}
	return out
}

func (e *Engine) stepTitle(ctx context.Context, userID int64, dctx *Context, input string) Outcome {
	if input == "" {
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonEmptyTitle, Step: StepTitle}
	}
	dctx.Title = input
	e.store.Set(userID, StateAwaitDescription, dctx)
	e.logTransition(userID, StateAwaitTitle, StateAwaitDescription)
	return Outcome{Kind: OutcomePrompt, Step: StepDescription}
}

func (e *Engine) stepDescription(ctx context.Context, userID int64, dctx *Context, input string) Outcome {
	if input != SkipMarker {
		dctx.Description = input
	}
	e.store.Set(userID, StateAwaitDueDate, dctx)
	e.logTransition(userID, StateAwaitDescription, StateAwaitDueDate)
	return Outcome{Kind: OutcomePrompt, Step: StepDueDate}
}

func (e *Engine) stepDueDate(ctx context.Context, userID int64, dctx *Context, input string) Outcome {
	if input != SkipMarker {
		due, err := ParseDueDate(input)
		if err != nil {
			return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonBadDate, Step: StepDueDate}
		}
		// Anchored to the day the dialogue started: a date valid at the
		// first prompt stays valid if midnight passes mid-conversation.
		if due.Before(startOfDay(dctx.StartedAt)) {
			return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonPastDate, Step: StepDueDate}
		}
		dctx.DueDate = &due
	}

	// The category prompt lists what already exists; a listing failure only
	// costs the hint, not the flow.
	cats, err := e.api.ListCategories(ctx)
	if err != nil {
		cats = nil
	}
	e.store.Set(userID, StateAwaitCategories, dctx)
	e.logTransition(userID, StateAwaitDueDate, StateAwaitCategories)
	return Outcome{Kind: OutcomePrompt, Step: StepCategories, Categories: cats}
}

func (e *Engine) stepCategories(ctx context.Context, userID int64, dctx *Context, input string) Outcome {
	names := []string{}
	if input != SkipMarker {
		names = splitNames(input)
	}

	// Every name must exist remotely before the task is submitted. A name
	// whose check fails remotely counts as missing; it is never assumed
	// valid.
	var missing []string
	for _, name := range names {
		exists, err := e.api.CategoryExists(ctx, name)
		if err != nil || !exists {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		e.store.Clear(userID)
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonMissingCategories, Names: missing}
	}

	draft := api.TaskDraft{
		Title:         dctx.Title,
		Description:   dctx.Description,
		DueDate:       dctx.DueDate,
		CategoryNames: names,
	}
	task, err := e.api.CreateTask(ctx, draft)
	if err != nil {
		return e.operationFailed(userID, OpCreateTask, err)
	}
	e.store.Clear(userID)
	e.logTransition(userID, StateAwaitCategories, StateIdle)
	return Outcome{Kind: OutcomeSuccess, Op: OpCreateTask, Task: task, Names: names}
}

func (e *Engine) stepTaskNumber(ctx context.Context, userID int64, dctx *Context, input string) Outcome {
	idx, err := strconv.Atoi(input)
	if err != nil {
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonBadNumber, Step: StepTaskNumber}
	}
	if idx < 1 || idx > len(dctx.Tasks) {
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonNumberOutOfRange, Step: StepTaskNumber}
	}
	task := dctx.Tasks[idx-1]
	if err := e.api.DeleteTask(ctx, task.ID); err != nil {
		return e.operationFailed(userID, OpDeleteTask, err)
	}
	e.store.Clear(userID)
	e.logTransition(userID, StateAwaitTaskNumber, StateIdle)
	return Outcome{Kind: OutcomeSuccess, Op: OpDeleteTask, Title: task.Title}
}

func (e *Engine) stepCategoryName(ctx context.Context, userID int64, dctx *Context, input string) Outcome {
	if input == "" {
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonEmptyCategoryName, Step: StepCategoryName}
	}
	exists, err := e.api.CategoryExists(ctx, input)
	if err != nil {
		return e.operationFailed(userID, OpCreateCategory, err)
	}
	if exists {
		e.store.Clear(userID)
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonDuplicateCategory, Title: input}
	}
	cat, err := e.api.CreateCategory(ctx, input)
	if err != nil {
		return e.operationFailed(userID, OpCreateCategory, err)
	}
	e.store.Clear(userID)
	e.logTransition(userID, StateAwaitCategoryName, StateIdle)
	return Outcome{Kind: OutcomeSuccess, Op: OpCreateCategory, Title: cat.Name}
}

func (e *Engine) stepCategoryNumber(ctx context.Context, userID int64, dctx *Context, input string) Outcome {
	idx, err := strconv.Atoi(input)
	if err != nil {
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonBadNumber, Step: StepCategoryNumber}
	}
	if idx < 1 || idx > len(dctx.Categories) {
		return Outcome{Kind: OutcomeValidationFailed, Reason: ReasonNumberOutOfRange, Step: StepCategoryNumber}
	}
	cat := dctx.Categories[idx-1]
	if err := e.api.DeleteCategory(ctx, cat.ID); err != nil {
		return e.operationFailed(userID, OpDeleteCategory, err)
	}
	e.store.Clear(userID)
	e.logTransition(userID, StateAwaitCategoryNum, StateIdle)
	return Outcome{Kind: OutcomeSuccess, Op: OpDeleteCategory, Title: cat.Name}
}

// operationFailed clears the dialogue and wraps the classified remote error.
func (e *Engine) operationFailed(userID int64, op Op, err error) Outcome {
	e.store.Clear(userID)
	failure, _ := api.AsFailure(err)
	logger.Dialog.Warn("operation",
		slog.Int64("user_id", userID),
		slog.String("op", string(op)),
		slog.String("err", logger.Sanitize(err.Error())),
	)
	return Outcome{Kind: OutcomeOperationFailed, Op: op, Failure: failure}
}

func (e *Engine) logTransition(userID int64, from, to State) {
	if !logger.ShouldSampleDebug() {
		return
	}
	logger.Dialog.Debug("transition",
		slog.Int64("user_id", userID),
		slog.String("state", string(from)),
		slog.String("next_state", string(to)),
	)
}

// splitNames splits a comma-separated list, trimming whitespace and dropping
// empty items.
func splitNames(input string) []string {
	parts := strings.Split(input, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}
