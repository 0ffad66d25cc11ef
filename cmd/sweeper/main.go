package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/todobot/core/bootstrap"
	coreconfig "github.com/m3rciful/todobot/core/config"
	"github.com/m3rciful/todobot/core/logger"
	"github.com/m3rciful/todobot/internal/api"
	"github.com/m3rciful/todobot/internal/sweep"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("sweeper exited: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required for notifications")
	}
	if cfg.Sweep.NotifyChatID == 0 {
		return fmt.Errorf("sweep.notify_chat_id is required")
	}

	if _, err := bootstrap.Run(bootstrap.Options{Config: cfg}); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	// Send-only: the sweeper never polls for updates.
	bot, err := tele.NewBot(tele.Settings{Token: cfg.Telegram.Token, Synchronous: true})
	if err != nil {
		return fmt.Errorf("bot init: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout())
	notifier := sweep.NewTelegramNotifier(bot, cfg.Sweep.NotifyChatID)
	sweeper := sweep.New(client, notifier, cfg.Sweep.Interval())

	if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
