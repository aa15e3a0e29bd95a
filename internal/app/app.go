// Package app wires configuration, logging, the store and the parse
// pipeline for the commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notexe/nevermiss/internal/api"
	"github.com/notexe/nevermiss/internal/config"
	"github.com/notexe/nevermiss/internal/httpapi"
	"github.com/notexe/nevermiss/internal/logging"
	"github.com/notexe/nevermiss/internal/parse"
	"github.com/notexe/nevermiss/internal/reminder"
	"github.com/notexe/nevermiss/internal/session"
)

type App struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *reminder.Store

	provider api.Provider
	parser   reminder.DraftParser
	// credErr is set when parsing is unavailable.
	credErr error
}

// Options are the per-command defaults applied when the config leaves
// the log settings empty.
type Options struct {
	LogLevel string
	LogFile  string
}

// New builds the application from a loaded config. A missing credential
// is not an error: parsing is disabled and the reason kept for display.
func New(cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, file := cfg.Log.Level, cfg.Log.File
	if level == "" {
		level = opts.LogLevel
	}
	if file == "" {
		file = opts.LogFile
	}
	logger, err := logging.New(level, file)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Store:  reminder.NewStore(cfg.Store.Path, reminder.WithStoreLogger(logger.Named("store"))),
	}

	provider, err := api.NewProvider(cfg.GetProviderConfig())
	if err != nil {
		a.credErr = err
		logger.Warn("parsing disabled", zap.Error(err))
		return a, nil
	}

	model := cfg.GetProviderConfig().Model
	a.provider = provider
	a.parser = parse.New(provider,
		parse.WithModel(model.Name),
		parse.WithMaxTokens(model.MaxTokens),
		parse.WithTemperature(model.Temperature),
		parse.WithLogger(logger.Named("parse")),
	)
	return a, nil
}

// Parser returns the parse pipeline, or nil when parsing is disabled.
func (a *App) Parser() reminder.DraftParser {
	return a.parser
}

// CredentialError explains why Parser is nil.
func (a *App) CredentialError() error {
	return a.credErr
}

// Session starts a capture session over the store.
func (a *App) Session() *session.State {
	return session.New(a.Store, a.parser, a.credErr)
}

func (a *App) Close() error {
	_ = a.Logger.Sync()
	if a.provider != nil {
		return a.provider.Close()
	}
	return nil
}

// DefaultLogFile places the REPL log next to the backing file so it does
// not interleave with the prompt.
func DefaultLogFile(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.Store.Path), "nevermiss.log")
}

// Serve runs the HTTP API until ctx is cancelled or a signal arrives.
func (a *App) Serve(ctx context.Context, addr string) error {
	opts := []httpapi.Option{
		httpapi.WithLogger(a.Logger.Named("http")),
		httpapi.WithParseTimeout(a.Config.ProviderTimeout()),
	}
	if a.parser != nil {
		opts = append(opts, httpapi.WithParser(a.parser))
	} else if a.credErr != nil {
		opts = append(opts, httpapi.WithNotice(a.credErr.Error()))
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(a.Store, opts...)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("starting HTTP server",
			zap.String("address", addr),
			zap.String("store", a.Store.Path()),
			zap.Bool("parsing", a.parser != nil))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			a.Logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("HTTP server shutdown error", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.Logger.Info("server stopped")
	return nil
}
