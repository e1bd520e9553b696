// Package cli wires the genbi commands: the HTTP API, the Telegram bot and local
// upload and render tools.
package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pivolan/genbi/config"
	"github.com/pivolan/genbi/service"
	"github.com/pivolan/genbi/store"
)

var (
	envFile string
	verbose bool
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "genbi",
		Short:         "Chunked dataset upload and chart rendering",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load before the environment (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		newServeCmd(),
		newBotCmd(),
		newUploadCmd(),
		newRenderCmd(),
		newKindsCmd(),
	)
	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		return 1
	}
	return 0
}

func loadConfig() (*config.Config, error) {
	if envFile == "" {
		return config.GetConfig(), nil
	}
	return config.Load(envFile)
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// services is what serve and bot share: one store and the services on top of it.
type services struct {
	store          store.Store
	datasets       *service.DatasetService
	visualizations *service.VisualizationService
	querier        *service.Querier
	sweeper        *service.Sweeper
}

func openServices(cfg *config.Config, logger *slog.Logger) (*services, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	qs := service.NewQueryClient(cfg.QueryServiceURL, cfg.QueryServiceKey, &http.Client{Timeout: 2 * time.Minute})
	return &services{
		store:          st,
		datasets:       service.NewDatasetService(st, logger),
		visualizations: service.NewVisualizationService(st, logger),
		querier:        service.NewQuerier(qs, logger),
		sweeper:        service.NewSweeper(st, cfg.SweepSchedule, cfg.ChunkTTL, logger),
	}, nil
}

func (s *services) Close() error {
	s.sweeper.Stop()
	return s.store.Close()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
