package bot

import (
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/todobot/core/config"
	coretelegram "github.com/m3rciful/todobot/core/telegram"
	"github.com/m3rciful/todobot/core/telegram/helpers"
	"github.com/m3rciful/todobot/core/telegram/router"
	"github.com/m3rciful/todobot/internal/api"
	"github.com/m3rciful/todobot/internal/dialog"
	"github.com/m3rciful/todobot/internal/render"
)

// App wires the persistence client, the dialogue engine and the Telegram
// routing into one runnable bot.
type App struct {
	cfg    *coreconfig.Config
	client *api.Client
	engine *dialog.Engine
}

func New(cfg *coreconfig.Config) *App {
	client := api.New(cfg.API.BaseURL, cfg.API.Timeout())
	return &App{
		cfg:    cfg,
		client: client,
		engine: dialog.NewEngine(dialog.NewStore(), client),
	}
}

// CoreConfig exposes the embedded core configuration.
func (a *App) CoreConfig() *coreconfig.Config { return a.cfg }

// TelegramRunOptions assembles registry, middlewares and routes.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	a.registerTriggers(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.dialogue(), reg, router.TextOptions{
		UnknownText: a.handleUnknownText,
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
	}, nil
}

// reply sends a rendered response through the async sender helpers.
func reply(c tele.Context, r render.Reply) error {
	if r.Markdown {
		return helpers.SendMD(c, r.Text, r.Markup)
	}
	if r.Markup != nil {
		return helpers.SendText(c, r.Text, &tele.SendOptions{ReplyMarkup: r.Markup})
	}
	return helpers.SendText(c, r.Text)
}
