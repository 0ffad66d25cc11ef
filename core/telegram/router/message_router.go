package router

import (
	"time"

	tg "github.com/m3rciful/todobot/core/telegram"
	"github.com/m3rciful/todobot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dialogue is the minimal interface the text router needs from the
// conversational engine. CancelPhrase always aborts the active dialogue,
// even when the user is mid-flow. Acquire serialises one user's messages:
// the router holds the returned release for the whole routing decision and
// the handler it picks, so InProgress can never observe a state another
// message of the same user is still transitioning.
type Dialogue interface {
	Acquire(userID int64) func()
	InProgress(userID int64) bool
	CancelPhrase() string
	HandleCancel(c tele.Context) error
	HandleTurn(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for text routing. Precedence for a text
// update: cancel phrase, active dialogue turn, trigger phrase, slash-style
// command, registry fallback, unknown-text fallback.
func TextRoutes(dlg Dialogue, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		// Telebot dispatches every update in its own goroutine. One user's
		// text messages are processed strictly in turn.
		if dlg != nil {
			if sender := c.Sender(); sender != nil {
				release := dlg.Acquire(sender.ID)
				defer release()
			}
		}

		if dlg != nil && text == dlg.CancelPhrase() {
			return handleWithSummary(c, "dialog_cancel", start, "", "", func() error {
				return dlg.HandleCancel(c)
			})
		}

		if dlg != nil && dlg.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				return dlg.HandleTurn(c)
			})
		}

		if reg != nil {
			if phrase, trg, ok := reg.LookupTrigger(text); ok && trg.Handler != nil {
				name := normalizeHandlerName(phrase)
				return handleWithSummary(c, name, start, "", "", func() error {
					return trg.Handler(c)
				})
			}
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
