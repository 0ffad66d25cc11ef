package bot

import (
	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/m3rciful/todobot/core/telegram"
	"github.com/m3rciful/todobot/core/telegram/commands"
	"github.com/m3rciful/todobot/core/telegram/helpers"
	"github.com/m3rciful/todobot/internal/dialog"
	"github.com/m3rciful/todobot/internal/render"
)

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Show help",
	})
}

func (a *App) registerTriggers(reg *coretelegram.Registry) {
	reg.RegisterTrigger(render.BtnMyTasks, commands.Trigger{Handler: a.handleMyTasks})
	reg.RegisterTrigger(render.BtnAddTask, commands.Trigger{Handler: a.handleAddTask})
	reg.RegisterTrigger(render.BtnDeleteTask, commands.Trigger{Handler: a.handleDeleteTask})
	reg.RegisterTrigger(render.BtnCategories, commands.Trigger{Handler: a.handleCategoriesMenu})
	reg.RegisterTrigger(render.BtnListCategories, commands.Trigger{Handler: a.handleListCategories})
	reg.RegisterTrigger(render.BtnAddCategory, commands.Trigger{Handler: a.handleAddCategory})
	reg.RegisterTrigger(render.BtnDeleteCategory, commands.Trigger{Handler: a.handleDeleteCategory})
	reg.RegisterTrigger(render.BtnHelp, commands.Trigger{Handler: a.handleHelp})
}

func (a *App) handleStart(c tele.Context) error {
	return reply(c, render.Welcome())
}

func (a *App) handleHelp(c tele.Context) error {
	return reply(c, render.Help())
}

func (a *App) handleMyTasks(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	tasks, err := a.client.ListTasks(ctx)
	if err != nil {
		return reply(c, render.ListError(dialog.OpListTasks))
	}
	return reply(c, render.TaskList(tasks))
}

func (a *App) handleAddTask(c tele.Context) error {
	out := a.engine.StartAddTask(helpers.BuildContext(c), c.Sender().ID)
	return reply(c, render.Outcome(out))
}

func (a *App) handleDeleteTask(c tele.Context) error {
	out := a.engine.StartDeleteTask(helpers.BuildContext(c), c.Sender().ID)
	return reply(c, render.Outcome(out))
}

func (a *App) handleCategoriesMenu(c tele.Context) error {
	return reply(c, render.CategoriesMenuReply())
}

func (a *App) handleListCategories(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	cats, err := a.client.ListCategories(ctx)
	if err != nil {
		return reply(c, render.ListError(dialog.OpListCategories))
	}
	return reply(c, render.CategoryList(cats))
}

func (a *App) handleAddCategory(c tele.Context) error {
	out := a.engine.StartAddCategory(helpers.BuildContext(c), c.Sender().ID)
	return reply(c, render.Outcome(out))
}

func (a *App) handleDeleteCategory(c tele.Context) error {
	out := a.engine.StartDeleteCategory(helpers.BuildContext(c), c.Sender().ID)
	return reply(c, render.Outcome(out))
}

func (a *App) handleUnknownText(c tele.Context) error {
	return reply(c, render.Welcome())
}

// dialogue adapts the engine to the router's Dialogue interface.
func (a *App) dialogue() *dialogueAdapter {
	return &dialogueAdapter{app: a}
}

type dialogueAdapter struct {
	app *App
}

func (d *dialogueAdapter) Acquire(userID int64) func() {
	return d.app.engine.Acquire(userID)
}

func (d *dialogueAdapter) InProgress(userID int64) bool {
	return d.app.engine.InProgress(userID)
}

func (d *dialogueAdapter) CancelPhrase() string { return render.BtnBack }

func (d *dialogueAdapter) HandleCancel(c tele.Context) error {
	out := d.app.engine.Cancel(c.Sender().ID)
	return reply(c, render.Outcome(out))
}

func (d *dialogueAdapter) HandleTurn(c tele.Context) error {
	out := d.app.engine.HandleInput(helpers.BuildContext(c), c.Sender().ID, c.Text())
	return reply(c, render.Outcome(out))
}
