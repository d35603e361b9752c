package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	tele "gopkg.in/telebot.v4"

	"mafiabot/core/config"
	"mafiabot/core/content"
	"mafiabot/core/database"
	"mafiabot/core/flow"
	"mafiabot/core/logger"
	"mafiabot/core/storage"
	"mafiabot/core/telegram"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	catalog := flow.NewCatalog()
	if err := catalog.Validate(); err != nil {
		return err
	}

	loader := content.NewLoader(cfg.Content.TextsDir, cfg.Content.AssetsDir)
	store := storage.NewSessionStore(db)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return telegram.Run(ctx, telegram.RunOptions{
		Config: cfg,
		BindText: func(bot *tele.Bot) tele.HandlerFunc {
			engine := flow.NewEngine(catalog, store, telegram.NewSender(bot), loader, flow.NewMediaCache())
			return func(c tele.Context) error {
				user := c.Sender()
				if user == nil {
					return nil
				}
				return engine.HandleMessage(ctx, user.ID, user.Username, c.Text())
			}
		},
	})
}
