// ABOUTME: Main entry point for the now-playing observer
// ABOUTME: Loads config, starts the poller, runs the status HTTP server
package main

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/radio-nowplaying/internal/application/config"
	"github.com/harper/radio-nowplaying/internal/application/poller"
	"github.com/harper/radio-nowplaying/internal/infrastructure/http"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "nowplaying",
	Short:         "detect track and show transitions for the now playing display",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config.yaml (default $NOWPLAYING_CONFIG or config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Resolve config path: flag, then environment, then default
	path := cfgPath
	if path == "" {
		path = os.Getenv("NOWPLAYING_CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}

	// Load config
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Setup logging
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Cancel everything on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create observers and poller (performs the initial show lookup)
	p, err := poller.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create poller: %w", err)
	}

	// Create status HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Listen.Host, cfg.Listen.Port)
	srv := &nethttp.Server{
		Addr:         addr,
		Handler:      http.NewRouter(p),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Start server
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("status server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Start polling
	pollDone := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(pollDone)
	}()

	logger.Info("polling", zap.Int("poll_ms", cfg.PollMs))

	// Wait for a signal or a server failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			cancel()
			<-pollDone
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("shutting down")
	cancel()
	<-pollDone

	// Shutdown server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.JSON {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level

	return zcfg.Build()
}
