package telegram

import (
	"context"
	"sort"
	"strings"

	"github.com/m3rciful/todobot/core/logger"
	"github.com/m3rciful/todobot/core/telegram/commands"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Registry holds slash commands and button-label triggers.
type Registry struct {
	commands     map[string]commands.Command
	triggers     map[string]commands.Trigger
	textFallback tele.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		triggers: make(map[string]commands.Trigger),
	}
}

// RegisterCommand adds a new slash command.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	if name[0] != '/' {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "no_slash_prefix"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// RegisterTrigger adds a trigger phrase mapped to its handler.
func (r *Registry) RegisterTrigger(phrase string, trg commands.Trigger) {
	phrase = strings.TrimSpace(phrase)
	if r == nil || phrase == "" || trg.Handler == nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.trigger.skip",
			slog.String("phrase", phrase),
			slog.String("reason", "invalid"),
		)
		return
	}
	if _, exists := r.triggers[phrase]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.trigger.duplicate",
			slog.String("phrase", phrase),
		)
		return
	}
	r.triggers[phrase] = trg
}

// ListCommands returns a slice of tele.Command, optionally filtering out hidden and admin-only commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: cmd, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand searches for a command by name or its aliases and returns the canonical key with metadata if found.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// LookupTrigger matches trimmed text against trigger phrases and their
// aliases. Phrases and aliases match case-insensitively alike.
func (r *Registry) LookupTrigger(text string) (string, commands.Trigger, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", commands.Trigger{}, false
	}
	if trg, ok := r.triggers[text]; ok {
		return text, trg, true
	}
	for phrase, trg := range r.triggers {
		if strings.EqualFold(phrase, text) {
			return phrase, trg, true
		}
		for _, alias := range trg.Aliases {
			if strings.EqualFold(alias, text) {
				return phrase, trg, true
			}
		}
	}
	return "", commands.Trigger{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// Triggers returns all registered trigger phrases.
func (r *Registry) Triggers() map[string]commands.Trigger {
	return r.triggers
}

// SetTextFallback sets a global fallback handler for unknown text messages.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// InitBotCommands sets the Telegram bot commands shown in the command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	commands := reg.ListCommands(true)
	if err := bot.SetCommands(commands); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
