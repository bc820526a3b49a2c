package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/dialogmesh"
	"github.com/hupe1980/dialogmesh/api"
	"github.com/hupe1980/dialogmesh/config"
)

const shutdownTimeout = 15 * time.Second

var (
	configPath string
	listenPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dialogue HTTP service",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, source, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if listenPort != 0 {
			cfg.Listen.Port = listenPort
		}

		logger, sync, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		defer sync()

		logger.Info("config.loaded", "source", source)

		dm, err := dialogmesh.NewFromConfig(cfg, logger)
		if err != nil {
			return err
		}

		srv := api.NewServer(dm, func(o *api.Options) {
			o.Address = cfg.Listen.Addr()
			o.Logger = logger
		})

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server.listen", "address", cfg.Listen.Addr())
			errCh <- srv.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		var serveErr error
		select {
		case sig := <-sigCh:
			logger.Info("server.shutdown", "signal", sig.String())
		case serveErr = <-errCh:
			if serveErr != nil {
				logger.Error("server.failed", "error", serveErr)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("server.shutdown.failed", "error", err)
		}
		if err := dm.Close(ctx); err != nil {
			logger.Warn("dialogmesh.close.failed", "error", err)
		}
		return serveErr
	},
}

// loadConfig resolves the config file, falling back to defaults when none
// is found, then applies environment overrides. The second return value
// names where the settings came from.
func loadConfig(explicit string) (*config.Config, string, error) {
	cfg := config.Default()
	source := "defaults"

	path, err := config.FindConfig(explicit)
	switch {
	case err == nil:
		if cfg, err = config.Load(path); err != nil {
			return nil, "", err
		}
		source = path
	case explicit != "":
		return nil, "", err
	}

	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, "", fmt.Errorf("apply environment: %w", err)
	}
	return cfg, source, nil
}
