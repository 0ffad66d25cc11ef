package render

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/core/telegram/keyboard"
)

// Button labels double as the trigger phrases the router matches on.
const (
	BtnMyTasks        = "📋 My tasks"
	BtnAddTask        = "➕ Add task"
	BtnDeleteTask     = "🗑️ Delete task"
	BtnCategories     = "🏷️ Categories"
	BtnHelp           = "ℹ️ Help"
	BtnListCategories = "📋 List categories"
	BtnAddCategory    = "➕ Add category"
	BtnDeleteCategory = "🗑️ Delete category"
	BtnBack           = "🔙 Back"
)

// MainMenu is the top-level reply keyboard.
func MainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnMyTasks, BtnAddTask},
		[]string{BtnDeleteTask, BtnCategories},
		[]string{BtnHelp},
	)
}

// CategoriesMenu is the category management submenu.
func CategoriesMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{BtnListCategories, BtnAddCategory},
		[]string{BtnDeleteCategory, BtnBack},
	)
}
