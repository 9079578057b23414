// Package app runs the HTTP server in front of the game engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/session"
	"github.com/vancomm/sweeper/internal/storage"
)

const (
	sessionTTL      = time.Hour
	pruneInterval   = time.Minute
	shutdownTimeout = 30 * time.Second
)

type App struct {
	logger   *logrus.Logger
	config   *config.Config
	router   *http.ServeMux
	sessions *session.Registry
	store    storage.Store
	ws       *config.WebSocket
}

func New(logger *logrus.Logger, c *config.Config, store storage.Store) *App {
	app := &App{
		logger:   logger,
		config:   c,
		router:   http.NewServeMux(),
		sessions: session.NewRegistry(createRand(c.Seed)),
		store:    store,
		ws:       c.NewWebSocket(),
	}
	app.loadRoutes()
	return app
}

// Handler is the router with middleware applied.
func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.logger),
		middleware.Cors(a.config.Development(), a.config.CorsOrigins...),
	)
}

func (a *App) prune(ctx context.Context) error {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			a.sessions.Prune(now.Add(-sessionTTL))
		}
	}
}

// Start serves until ctx is cancelled or the listener fails.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("addr", a.config.Addr).Info("server listening")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to listen and serve: %w", err)
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	g.Go(func() error {
		return a.prune(gCtx)
	})

	err := g.Wait()
	a.logger.WithField("sessions", a.sessions.Len()).Info("server stopped")
	return err
}
