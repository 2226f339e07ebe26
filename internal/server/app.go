// Package server wires configuration, storage, services and transports
// together and runs them until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/events"
	"github.com/dmitrijs2005/notekeeper/internal/server/httpserver"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repomanager  repomanager.RepositoryManager
	publisher    events.Publisher
	authService  *services.AuthService
	notesService *services.NotesService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, os.Stdout)

	key, err := c.SigningKey()
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(auth.SignerConfig{
		Secret:     key,
		AccessTTL:  c.AccessTokenValidityDuration,
		RefreshTTL: c.RefreshTokenValidityDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("signer init error: %w", err)
	}

	rm, err := newRepositoryManager(c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, err
	}

	var pub events.Publisher = events.NopPublisher{}
	if len(c.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
	}

	as := services.NewAuthService(rm, signer, auth.NewBcryptHasher(c.BcryptCost), pub, logger)
	ns := services.NewNotesService(rm, logger)

	return &App{
		config:       c,
		logger:       logger,
		repomanager:  rm,
		publisher:    pub,
		authService:  as,
		notesService: ns,
	}, nil
}

func newRepositoryManager(c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.Storage {
	case config.StorageMemory:
		return memory.NewManager(), nil
	case config.StoragePostgres:
		db, err := repomanager.OpenPostgres(c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repomanager.NewPostgresRepositoryManager(db), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.New(app.config.EndpointAddrHTTP, app.logger, app.authService, app.notesService, app.repomanager.Ping)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.repomanager.Ping)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc health server failed", "error", err)
		cancelFunc()
	}
}

// runJanitor removes expired refresh records every CleanupInterval.
func (app *App) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(app.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := app.authService.CleanupExpired(ctx); err != nil {
				app.logger.Warn(ctx, "refresh token cleanup failed", "error", err)
			}
		}
	}
}

// Run blocks until a termination signal arrives or a transport fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.runJanitor(ctx)
	}()

	wg.Wait()

	if err := app.publisher.Close(); err != nil {
		app.logger.Warn(context.Background(), "event publisher close failed", "error", err)
	}
	if err := app.repomanager.Close(); err != nil {
		app.logger.Warn(context.Background(), "storage close failed", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
