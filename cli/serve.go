package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/spf13/cobra"

	"github.com/pivolan/genbi/api"
	"github.com/pivolan/genbi/bot"
)

func newServeCmd() *cobra.Command {
	var (
		addr    string
		withBot bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the chunk sweeper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}
			logger := newLogger(os.Stderr)
			svc, err := openServices(cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()
			if err := svc.sweeper.Start(); err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			if withBot {
				go func() {
					if err := runBot(ctx, cfg.TgToken, svc, logger); err != nil {
						logger.Error("telegram bot stopped", "error", err)
					}
				}()
			}
			srv := api.NewServer(cfg, svc.datasets, svc.visualizations, svc.querier, logger)
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default HTTP_ADDR)")
	cmd.Flags().BoolVar(&withBot, "bot", false, "Also run the Telegram bot")
	return cmd
}

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(os.Stderr)
			svc, err := openServices(cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()
			if err := svc.sweeper.Start(); err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return runBot(ctx, cfg.TgToken, svc, logger)
		},
	}
}

func runBot(ctx context.Context, token string, svc *services, logger *slog.Logger) error {
	if token == "" {
		return fmt.Errorf("TG_TOKEN is not set")
	}
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	logger.Info("telegram bot authorized", "account", botAPI.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := botAPI.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("telegram updates: %w", err)
	}
	bot.New(botAPI, svc.datasets, svc.querier, logger).Serve(ctx, updates)
	return nil
}
