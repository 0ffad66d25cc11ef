package main

import (
	"log"

	"github.com/m3rciful/todobot/core/bootstrap"
	corecmd "github.com/m3rciful/todobot/core/cmd"
	coreconfig "github.com/m3rciful/todobot/core/config"
	"github.com/m3rciful/todobot/internal/bot"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return bot.New(cfg), nil
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			app := carrier.(*bot.App)
			if _, err := bootstrap.Run(bootstrap.Options{Config: app.CoreConfig()}); err != nil {
				return nil, err
			}
			return app, nil
		},
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
