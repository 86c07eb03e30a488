package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wampcore/pkg/capture"
	"wampcore/pkg/common"
	"wampcore/pkg/common/config"
	"wampcore/pkg/common/database"
	"wampcore/pkg/common/restful"
	"wampcore/pkg/common/worker"
	"wampcore/pkg/conformance"
	"wampcore/pkg/inspect"
	"wampcore/pkg/loopback"
	"wampcore/pkg/poolapi"
	"wampcore/pkg/process"
	"wampcore/pkg/wamp"
)

// App is the wired API service.
type App struct {
	Config  *config.Config
	Server  *restful.Server
	Process *process.Process
	Router  *loopback.Router
	Store   *capture.Store
	Pool    *worker.Pool
}

// New loads configuration from configPath and wires every component. The
// server is not started.
func New(configPath string) (*App, error) {
	cfg, err := common.Init(configPath)
	if err != nil {
		return nil, err
	}
	logger := common.GetLogger()
	if common.IsDebug() {
		logger.Debug().Msg("Debug mode enabled")
	}

	fsys, err := common.GetFileSystem()
	if err != nil {
		return nil, fmt.Errorf("filesystem init: %w", err)
	}
	logger.Info().Str("runtime_path", fsys.GetRuntimePath()).Str("objects_path", fsys.GetObjectsPath()).Msg("Runtime paths ready")

	db, err := database.Init(cfg.RuntimeDir, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	store, err := capture.Open(db)
	if err != nil {
		return nil, err
	}

	if err := worker.Init(cfg.Workers); err != nil {
		return nil, fmt.Errorf("worker pool init: %w", err)
	}
	pool := worker.Default()

	// cfg.Roles describe the client whose frames are inspected; the process
	// answers them as the router side of the session.
	local, err := conformance.Parse(cfg.Roles)
	if err != nil {
		return nil, err
	}
	checker := conformance.New(wamp.Dealer, wamp.Broker)
	proc := process.New(process.WithChecker(checker))
	router, err := loopback.New(proc, cfg.StrictURIs)
	if err != nil {
		return nil, fmt.Errorf("register handlers: %w", err)
	}

	srv := restful.NewServer(restful.WithAddress(cfg.Addr))
	api := srv.Engine.Group("/api")
	inspect.New(
		inspect.WithStore(store),
		inspect.WithArchive(capture.NewArchive(store, fsys)),
		inspect.WithPool(pool),
		inspect.WithDispatcher(proc),
		inspect.WithLocalRoles(local),
		inspect.WithStrictURIs(cfg.StrictURIs),
	).RegisterRoutes(api)
	poolapi.RegisterRoutes(api.Group("/pool"), pool, proc)

	return &App{Config: cfg, Server: srv, Process: proc, Router: router, Store: store, Pool: pool}, nil
}

// Start starts the dispatcher and the HTTP server.
func (a *App) Start() error {
	a.Process.Start()
	if err := a.Server.Start(); err != nil {
		a.Process.Stop()
		return err
	}
	return nil
}

// Stop shuts the server down and stops the dispatcher.
func (a *App) Stop(ctx context.Context) error {
	a.Process.Stop()
	err := a.Server.Shutdown(ctx)
	if cerr := database.Close(); err == nil {
		err = cerr
	}
	return err
}

// RunAPI starts the API service and blocks until SIGINT or SIGTERM.
func RunAPI(configPath string) error {
	a, err := New(configPath)
	if err != nil {
		return err
	}
	logger := common.GetLogger()
	logger.Info().Str("addr", a.Config.Addr).Strs("roles", a.Config.Roles).Msg("Starting wampcore API service")

	if err := a.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
		return err
	}
	logger.Info().Msg("Server exited cleanly")
	return nil
}
