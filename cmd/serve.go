package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	v1 "github.com/releaserite/api/v1"
	"github.com/releaserite/database"
	"github.com/releaserite/metrics"
	"github.com/releaserite/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if cfg.Environment != "dev" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := database.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if err := database.Migrate(db, logger); err != nil {
			return err
		}

		var revoker services.TokenRevoker
		if cfg.RedisURL != "" {
			redisRevoker, err := services.NewRedisRevokerFromURL(ctx, cfg.RedisURL)
			if err != nil {
				return err
			}
			defer func() { _ = redisRevoker.Close() }()
			revoker = redisRevoker
			logger.Info("token revocation enabled")
		}

		router, err := v1.NewRouter(v1.Dependencies{
			Config:  cfg,
			DB:      db,
			Logger:  logger,
			Metrics: metrics.New(""),
			Revoker: revoker,
		})
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("api_prefix", cfg.APIPrefix))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return errors.Wrap(err, "http server")
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	},
}
