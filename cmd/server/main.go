package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/todobot/core/bootstrap"
	coreconfig "github.com/m3rciful/todobot/core/config"
	coredatabase "github.com/m3rciful/todobot/core/database"
	"github.com/m3rciful/todobot/core/logger"
	"github.com/m3rciful/todobot/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited: %v", err)
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
	dbCfg, err := loadDatabaseConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load database config: %w", err)
	}

	result, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg,
		Database: dbCfg,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	defer result.DB.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	storage := server.NewPostgresStorage(result.DB)
	return server.NewServer(storage).Run(ctx, cfg.Server.Addr())
}

// loadDatabaseConfig reads the database section of the config file, then lets
// environment variables override it.
func loadDatabaseConfig(path string) (*coredatabase.Config, error) {
	var file struct {
		Database coredatabase.Config `yaml:"database"`
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	cfg := file.Database
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
