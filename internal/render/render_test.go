package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/todobot/internal/api"
	"github.com/m3rciful/todobot/internal/dialog"
)

func TestTaskList(t *testing.T) {
	due := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	tasks := []api.Task{
		{
			ID:          "1756500000000000000_abcdef0123456789",
			Title:       "Buy milk",
			Description: "a very long description that should be shortened for the listing view",
			CreatedDate: created,
			DueDate:     &due,
			Categories:  []api.Category{{Name: "errands"}, {Name: "home"}},
		},
		{ID: "x", Title: "Done one", Completed: true, CreatedDate: created},
		{ID: "y", Title: "Late one", CreatedDate: created, DueDate: &due, IsOverdue: true},
	}

	out := TaskList(tasks)
	assert.Contains(t, out.Text, "1. ⏳ Buy milk")
	assert.Contains(t, out.Text, "2. ✅ Done one")
	assert.Contains(t, out.Text, "3. 🚨 Late one")
	assert.Contains(t, out.Text, "📅 Created: 2026-08-30")
	assert.Contains(t, out.Text, "⏰ Due: 2026-09-05")
	assert.Contains(t, out.Text, "🚨 OVERDUE: 2026-09-05")
	assert.Contains(t, out.Text, "🏷️ Categories: errands, home")
	assert.Contains(t, out.Text, "...")
	assert.NotContains(t, out.Text, "shortened for the listing view")
	assert.Contains(t, out.Text, "🆔 ID: 17565000...")
}

func TestTaskListEmpty(t *testing.T) {
	out := TaskList(nil)
	assert.Equal(t, "📭 You have no tasks yet.", out.Text)
}

func TestCategoryList(t *testing.T) {
	out := CategoryList([]api.Category{{Name: "home"}, {Name: "work"}})
	assert.Contains(t, out.Text, "1. home")
	assert.Contains(t, out.Text, "2. work")

	assert.Equal(t, "📭 No categories created yet.", CategoryList(nil).Text)
}

func TestOutcomePrompts(t *testing.T) {
	out := Outcome(dialog.Outcome{Kind: dialog.OutcomePrompt, Step: dialog.StepTitle})
	assert.Contains(t, out.Text, "task title")
	require.NotNil(t, out.Markup)
	assert.True(t, out.Markup.RemoveKeyboard)

	out = Outcome(dialog.Outcome{
		Kind:       dialog.OutcomePrompt,
		Step:       dialog.StepCategories,
		Categories: []api.Category{{Name: "home"}, {Name: "work"}},
	})
	assert.Contains(t, out.Text, "available: home, work")

	out = Outcome(dialog.Outcome{Kind: dialog.OutcomePrompt, Step: dialog.StepCategories})
	assert.NotContains(t, out.Text, "available")
}

func TestOutcomeTaskNumberPromptListsTasks(t *testing.T) {
	out := Outcome(dialog.Outcome{
		Kind:  dialog.OutcomePrompt,
		Step:  dialog.StepTaskNumber,
		Tasks: []api.Task{{Title: "first"}, {Title: "second"}},
	})
	assert.Contains(t, out.Text, "1. first")
	assert.Contains(t, out.Text, "2. second")
}

func TestOutcomeValidationMessages(t *testing.T) {
	out := Outcome(dialog.Outcome{
		Kind:   dialog.OutcomeValidationFailed,
		Reason: dialog.ReasonMissingCategories,
		Names:  []string{"ghost", "phantom"},
	})
	assert.Contains(t, out.Text, "ghost, phantom")
	require.NotNil(t, out.Markup)

	out = Outcome(dialog.Outcome{
		Kind:   dialog.OutcomeValidationFailed,
		Reason: dialog.ReasonDuplicateCategory,
		Title:  "work",
	})
	assert.Contains(t, out.Text, "«work» already exists")

	out = Outcome(dialog.Outcome{
		Kind:   dialog.OutcomeValidationFailed,
		Reason: dialog.ReasonBadNumber,
		Step:   dialog.StepCategoryNumber,
	})
	assert.Contains(t, out.Text, "category number")
}

func TestOutcomeSuccessMessages(t *testing.T) {
	due := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	out := Outcome(dialog.Outcome{
		Kind:  dialog.OutcomeSuccess,
		Op:    dialog.OpCreateTask,
		Task:  &api.Task{Title: "Buy milk", DueDate: &due},
		Names: []string{"errands"},
	})
	assert.Contains(t, out.Text, "✅ Task added!")
	assert.Contains(t, out.Text, "🏷️ Categories: errands")
	assert.Contains(t, out.Text, "📅 Due: 2026-12-25")

	out = Outcome(dialog.Outcome{Kind: dialog.OutcomeSuccess, Op: dialog.OpDeleteTask, Title: "old"})
	assert.Contains(t, out.Text, "«old» deleted")
	assert.True(t, out.Markdown)
}

func TestOutcomeEscapesMarkdownInTitles(t *testing.T) {
	out := Outcome(dialog.Outcome{Kind: dialog.OutcomeSuccess, Op: dialog.OpDeleteTask, Title: "a*b_c"})
	assert.Contains(t, out.Text, `a\*b\_c`)

	out = Outcome(dialog.Outcome{
		Kind:   dialog.OutcomeValidationFailed,
		Reason: dialog.ReasonDuplicateCategory,
		Title:  "back`tick",
	})
	assert.Contains(t, out.Text, "back\\`tick")
	assert.True(t, out.Markdown)
}

func TestOutcomeOperationFailed(t *testing.T) {
	out := Outcome(dialog.Outcome{Kind: dialog.OutcomeOperationFailed, Op: dialog.OpCreateTask})
	assert.Contains(t, out.Text, "❌ Failed to add the task.")
	require.NotNil(t, out.Markup)
}

func TestOutcomeCleared(t *testing.T) {
	out := Outcome(dialog.Outcome{Kind: dialog.OutcomeCleared})
	assert.Contains(t, out.Text, "main menu")
	require.NotNil(t, out.Markup)
}

func TestOverdueAlert(t *testing.T) {
	due := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	text := OverdueAlert(api.Task{Title: "Pay rent", DueDate: &due})
	assert.Contains(t, text, "«Pay rent»")
	assert.Contains(t, text, "2026-08-20")
}
