package sweep

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/internal/api"
	"github.com/m3rciful/todobot/internal/render"
)

// TelegramNotifier sends overdue alerts to a fixed chat.
type TelegramNotifier struct {
	bot    *tele.Bot
	chatID int64
}

func NewTelegramNotifier(bot *tele.Bot, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) NotifyOverdue(ctx context.Context, task api.Task) error {
	_, err := n.bot.Send(tele.ChatID(n.chatID), render.OverdueAlert(task))
	return err
}
