// Package server initializes and runs the main application server.
// It selects the record store backend, wires the resource handlers, and
// serves HTTP until the process is signalled to stop.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/upcheck/internal/cryptox"
	"github.com/dmitrijs2005/upcheck/internal/logging"
	"github.com/dmitrijs2005/upcheck/internal/server/auth"
	"github.com/dmitrijs2005/upcheck/internal/server/config"
	"github.com/dmitrijs2005/upcheck/internal/server/handlers"
	"github.com/dmitrijs2005/upcheck/internal/server/store"
	"github.com/dmitrijs2005/upcheck/internal/server/transport"
)

type App struct {
	config *config.Config
	logger logging.Logger
	router *handlers.Router

	closeStore func() error
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	st, closeStore, err := newStore(c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	hasher := cryptox.NewHasher(c.HashingSecret)
	authService := auth.NewService(st, c.TokenValidityDuration)

	router := handlers.NewRouter(
		handlers.NewUsers(st, authService, hasher, logger),
		handlers.NewTokens(st, authService, hasher, logger),
		handlers.NewChecks(st, authService, c.MaxChecks, logger),
	)

	return &App{config: c, logger: logger, router: router, closeStore: closeStore}, nil
}

// newStore builds the configured record store backend.
func newStore(c *config.Config) (store.Store, func() error, error) {
	switch c.StoreBackend {
	case config.StoreBackendSQLite:
		s, err := store.NewSQLiteStore(c.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StoreBackendFile:
		s, err := store.NewFileStore(c.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %q", c.StoreBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := transport.NewHTTPServer(app.config.EndpointAddr, app.router, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.EnvName, "backend", app.config.StoreBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.closeStore(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err)
	}
}
