package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "start"})
	reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "no slash"})
	reg.RegisterCommand("/nodesc", commands.Command{Handler: noop})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "duplicate"})

	if len(reg.Commands()) != 1 {
		t.Fatalf("expected 1 registered command, got %d", len(reg.Commands()))
	}
	key, cmd, ok := reg.LookupCommand("/start")
	if !ok || key != "/start" {
		t.Fatalf("lookup /start failed: ok=%v key=%q", ok, key)
	}
	if cmd.Description != "start" {
		t.Fatalf("duplicate registration overwrote the original: %q", cmd.Description)
	}
}

func TestLookupCommandAliases(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/help", commands.Command{
		Handler:     noop,
		Description: "help",
		Aliases:     []string{"h"},
	})

	for _, input := range []string{"/help", "help", "/h", "h"} {
		key, _, ok := reg.LookupCommand(input)
		if !ok || key != "/help" {
			t.Fatalf("lookup %q: ok=%v key=%q", input, ok, key)
		}
	}
	if _, _, ok := reg.LookupCommand("/missing"); ok {
		t.Fatal("lookup of unregistered command succeeded")
	}
}

func TestLookupTrigger(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterTrigger("📋 My tasks", commands.Trigger{Handler: noop, Aliases: []string{"my tasks"}})

	phrase, _, ok := reg.LookupTrigger("  📋 My tasks ")
	if !ok || phrase != "📋 My tasks" {
		t.Fatalf("exact lookup failed: ok=%v phrase=%q", ok, phrase)
	}

	// Phrases and aliases match case-insensitively alike.
	phrase, _, ok = reg.LookupTrigger("📋 my tasks")
	if !ok || phrase != "📋 My tasks" {
		t.Fatalf("case-insensitive phrase lookup failed: ok=%v phrase=%q", ok, phrase)
	}
	phrase, _, ok = reg.LookupTrigger("My Tasks")
	if !ok || phrase != "📋 My tasks" {
		t.Fatalf("alias lookup failed: ok=%v phrase=%q", ok, phrase)
	}

	if _, _, ok := reg.LookupTrigger(""); ok {
		t.Fatal("empty text matched a trigger")
	}
	if _, _, ok := reg.LookupTrigger("unrelated"); ok {
		t.Fatal("unrelated text matched a trigger")
	}
}

func TestListCommandsHidesAdminAndHidden(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "start"})
	reg.RegisterCommand("/admin", commands.Command{Handler: noop, Description: "admin", AdminOnly: true})
	reg.RegisterCommand("/secret", commands.Command{Handler: noop, Description: "secret", Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/start" {
		t.Fatalf("unexpected visible commands: %+v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 3 {
		t.Fatalf("expected 3 commands total, got %d", len(all))
	}
}
