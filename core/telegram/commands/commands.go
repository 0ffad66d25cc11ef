package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a slash command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

// Trigger represents a fixed phrase (usually a reply-keyboard button label)
// that starts a stateless query or a dialogue.
type Trigger struct {
	Handler tele.HandlerFunc
	Aliases []string
}
