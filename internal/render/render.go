package render

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/core/telegram/format"
	"github.com/m3rciful/todobot/core/telegram/keyboard"
	"github.com/m3rciful/todobot/internal/api"
	"github.com/m3rciful/todobot/internal/dialog"
)

const (
	dateLayout     = "2006-01-02"
	descriptionMax = 50
	idPreviewLen   = 8
)

// Reply is a rendered response: text plus the keyboard to show with it.
// Markdown marks the few canned texts that use formatting; everything that
// interpolates user content stays plain.
type Reply struct {
	Text     string
	Markup   *tele.ReplyMarkup
	Markdown bool
}

// Welcome greets a new conversation.
func Welcome() Reply {
	return Reply{
		Text:   "👋 Welcome to the ToDo bot!\n\nUse the buttons below to manage your tasks:",
		Markup: MainMenu(),
	}
}

// Help describes the available actions.
func Help() Reply {
	text := strings.Join([]string{
		"ℹ️ *Bot help*",
		"",
		"*Main actions:*",
		BtnMyTasks + " — show all your tasks",
		BtnAddTask + " — create a new task",
		BtnDeleteTask + " — delete an existing task",
		BtnCategories + " — manage categories",
		"",
		"*Category management:*",
		BtnListCategories + " — show all categories",
		BtnAddCategory + " — create a new category",
		BtnDeleteCategory + " — delete an existing category",
		"",
		"*Notes:*",
		"• A task may carry a due date (format: DD.MM.YYYY)",
		"• Tasks can be attached to existing categories",
		"• A task is not created if a category does not exist",
		"• Tasks are sorted by creation date",
		"",
		"To get started press «" + BtnMyTasks + "» or «" + BtnAddTask + "».",
	}, "\n")
	return Reply{Text: text, Markdown: true}
}

// CategoriesMenuReply opens the category submenu.
func CategoriesMenuReply() Reply {
	return Reply{Text: "🏷️ Category management:", Markup: CategoriesMenu()}
}

// TaskList renders the numbered task listing.
func TaskList(tasks []api.Task) Reply {
	if len(tasks) == 0 {
		return Reply{Text: "📭 You have no tasks yet."}
	}
	var b strings.Builder
	b.WriteString("📋 Your tasks:\n\n")
	for i, task := range tasks {
		b.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, statusGlyph(task), task.Title))
		b.WriteString("   📅 Created: " + task.CreatedDate.Format(dateLayout) + "\n")
		if task.DueDate != nil {
			label := "⏰ Due"
			if task.IsOverdue {
				label = "🚨 OVERDUE"
			}
			b.WriteString("   " + label + ": " + task.DueDate.Format(dateLayout) + "\n")
		}
		if names := categoryNames(task.Categories); names != "" {
			b.WriteString("   🏷️ Categories: " + names + "\n")
		}
		if task.Description != "" {
			b.WriteString("   📄 Description: " + clip(task.Description, descriptionMax) + "\n")
		}
		b.WriteString("   🆔 ID: " + clip(task.ID, idPreviewLen) + "\n\n")
	}
	b.WriteString("💡 To delete a task press «" + BtnDeleteTask + "»")
	return Reply{Text: b.String()}
}

// CategoryList renders the numbered category listing.
func CategoryList(cats []api.Category) Reply {
	if len(cats) == 0 {
		return Reply{Text: "📭 No categories created yet."}
	}
	var b strings.Builder
	b.WriteString("🏷️ Available categories:\n\n")
	for i, cat := range cats {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, cat.Name))
	}
	return Reply{Text: b.String()}
}

// ListError covers failures of the direct listing queries.
func ListError(op dialog.Op) Reply {
	if op == dialog.OpListCategories {
		return Reply{Text: "❌ Failed to fetch categories."}
	}
	return Reply{Text: "❌ Failed to fetch tasks."}
}

// Outcome translates a dialogue outcome into a user-visible reply.
func Outcome(o dialog.Outcome) Reply {
	switch o.Kind {
	case dialog.OutcomePrompt:
		return prompt(o)
	case dialog.OutcomeValidationFailed:
		return validationFailed(o)
	case dialog.OutcomeSuccess:
		return success(o)
	case dialog.OutcomeOperationFailed:
		return operationFailed(o)
	case dialog.OutcomeCleared:
		return Reply{Text: "🔙 Back to the main menu:", Markup: MainMenu()}
	}
	return Reply{Text: "🔙 Back to the main menu:", Markup: MainMenu()}
}

func prompt(o dialog.Outcome) Reply {
	switch o.Step {
	case dialog.StepTitle:
		return Reply{Text: "📝 Enter the task title:", Markup: keyboard.RemoveKeyboard()}
	case dialog.StepDescription:
		return Reply{Text: "📄 Enter the task description (or send '-' to skip):"}
	case dialog.StepDueDate:
		return Reply{Text: "📅 Enter the due date (DD.MM.YYYY, e.g. 25.12.2026)\nOr send '-' to skip:"}
	case dialog.StepCategories:
		if len(o.Categories) > 0 {
			names := make([]string, len(o.Categories))
			for i, cat := range o.Categories {
				names[i] = cat.Name
			}
			return Reply{Text: "🏷️ Enter categories separated by commas (available: " +
				strings.Join(names, ", ") + ")\nOr send '-' to skip:"}
		}
		return Reply{Text: "🏷️ Enter categories separated by commas\nOr send '-' to skip:"}
	case dialog.StepTaskNumber:
		var b strings.Builder
		b.WriteString("🗑️ Choose the number of the task to delete:\n\n")
		for i, task := range o.Tasks {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, task.Title))
		}
		return Reply{Text: b.String(), Markup: keyboard.RemoveKeyboard()}
	case dialog.StepCategoryName:
		return Reply{Text: "🏷️ Enter the new category name:", Markup: keyboard.RemoveKeyboard()}
	case dialog.StepCategoryNumber:
		var b strings.Builder
		b.WriteString("🗑️ Choose the number of the category to delete:\n\n")
		for i, cat := range o.Categories {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, cat.Name))
		}
		return Reply{Text: b.String(), Markup: keyboard.RemoveKeyboard()}
	}
	return Reply{Text: "🔙 Back to the main menu:", Markup: MainMenu()}
}

func validationFailed(o dialog.Outcome) Reply {
	switch o.Reason {
	case dialog.ReasonEmptyTitle:
		return Reply{Text: "❌ The title cannot be empty. Try again:"}
	case dialog.ReasonEmptyCategoryName:
		return Reply{Text: "❌ The category name cannot be empty. Try again:"}
	case dialog.ReasonBadDate:
		return Reply{Text: "❌ Invalid date! Please enter the date as DD.MM.YYYY:"}
	case dialog.ReasonPastDate:
		return Reply{Text: "❌ The due date is already in the past. Please enter a date from today on (DD.MM.YYYY):"}
	case dialog.ReasonBadNumber:
		if o.Step == dialog.StepCategoryNumber {
			return Reply{Text: "❌ Please send the category number (a number):"}
		}
		return Reply{Text: "❌ Please send the task number (a number):"}
	case dialog.ReasonNumberOutOfRange:
		if o.Step == dialog.StepCategoryNumber {
			return Reply{Text: "❌ Invalid category number. Please pick one from the list:"}
		}
		return Reply{Text: "❌ Invalid task number. Please pick one from the list:"}
	case dialog.ReasonMissingCategories:
		return Reply{
			Text: "❌ These categories do not exist: " + strings.Join(o.Names, ", ") + "\n\n" +
				"Please create them first via the «" + BtnCategories + "» menu, or use existing ones.",
			Markup: MainMenu(),
		}
	case dialog.ReasonDuplicateCategory:
		return Reply{
			Text:     "❌ Category «" + escapeMD(o.Title) + "» already exists!",
			Markup:   CategoriesMenu(),
			Markdown: true,
		}
	case dialog.ReasonNoTasks:
		return Reply{Text: "📭 You have no tasks to delete yet."}
	case dialog.ReasonNoCategories:
		return Reply{Text: "📭 You have no categories to delete yet."}
	}
	return Reply{Text: "🔙 Back to the main menu:", Markup: MainMenu()}
}

func success(o dialog.Outcome) Reply {
	switch o.Op {
	case dialog.OpCreateTask:
		var b strings.Builder
		b.WriteString("✅ Task added!")
		if len(o.Names) > 0 {
			b.WriteString("\n🏷️ Categories: " + strings.Join(o.Names, ", "))
		}
		if o.Task != nil && o.Task.DueDate != nil {
			b.WriteString("\n📅 Due: " + o.Task.DueDate.Format(dateLayout))
		}
		return Reply{Text: b.String(), Markup: MainMenu()}
	case dialog.OpDeleteTask:
		return Reply{Text: "✅ Task «" + escapeMD(o.Title) + "» deleted!", Markup: MainMenu(), Markdown: true}
	case dialog.OpCreateCategory:
		return Reply{Text: "✅ Category «" + escapeMD(o.Title) + "» created!", Markup: CategoriesMenu(), Markdown: true}
	case dialog.OpDeleteCategory:
		return Reply{Text: "✅ Category «" + escapeMD(o.Title) + "» deleted!", Markup: CategoriesMenu(), Markdown: true}
	}
	return Reply{Text: "✅ Done!", Markup: MainMenu()}
}

func operationFailed(o dialog.Outcome) Reply {
	switch o.Op {
	case dialog.OpCreateTask:
		return Reply{Text: "❌ Failed to add the task.", Markup: MainMenu()}
	case dialog.OpDeleteTask:
		return Reply{Text: "❌ Failed to delete the task.", Markup: MainMenu()}
	case dialog.OpCreateCategory:
		return Reply{Text: "❌ Failed to create the category.", Markup: CategoriesMenu()}
	case dialog.OpDeleteCategory:
		return Reply{Text: "❌ Failed to delete the category.", Markup: CategoriesMenu()}
	case dialog.OpListTasks:
		return Reply{Text: "❌ Failed to fetch tasks.", Markup: MainMenu()}
	case dialog.OpListCategories:
		return Reply{Text: "❌ Failed to fetch categories.", Markup: MainMenu()}
	}
	return Reply{Text: "❌ Something went wrong.", Markup: MainMenu()}
}

// OverdueAlert renders the sweeper's notification for one overdue task.
func OverdueAlert(task api.Task) string {
	due := ""
	if task.DueDate != nil {
		due = task.DueDate.Format(dateLayout)
	}
	return fmt.Sprintf("🚨 Task «%s» is overdue! Due date was %s.", task.Title, due)
}

func statusGlyph(task api.Task) string {
	switch {
	case task.Completed:
		return "✅"
	case task.IsOverdue:
		return "🚨"
	default:
		return "⏳"
	}
}

func categoryNames(cats []api.Category) string {
	if len(cats) == 0 {
		return ""
	}
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = cat.Name
	}
	return strings.Join(names, ", ")
}

// escapeMD shields user-supplied text interpolated into Markdown replies.
func escapeMD(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return out
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
