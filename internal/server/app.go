// Package server initializes and runs the wiki application server. It wires
// the object store client, the backend and the HTTP route layer, and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teamawesome/wikistore/internal/backend"
	"github.com/teamawesome/wikistore/internal/blobstore"
	"github.com/teamawesome/wikistore/internal/config"
	"github.com/teamawesome/wikistore/internal/logging"
	"github.com/teamawesome/wikistore/internal/web"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewDefault()

	blobs, err := blobstore.NewS3Store(ctx, blobstore.S3Options{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		OpTimeout:    cfg.StorageOpTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	b := backend.New(blobs, cfg.ContentBucket, cfg.CredentialsBucket)
	handler := web.New(cfg, b, logger)

	return &App{config: cfg, logger: logger, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, err.Error())
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}
}
