package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/safeguard"
	"github.com/lestorrr/NetLab/pkg/scanexec"
	"github.com/lestorrr/NetLab/pkg/server/api"
	"github.com/lestorrr/NetLab/pkg/server/httpx"
)

// ShutdownTimeout bounds graceful shutdown of in-flight requests.
const ShutdownTimeout = 30 * time.Second

// App orchestrates the server runtime components:
// - HTTP server (scan API + health endpoints)
// - Deny list and its config file watcher
// - Lifecycle management
type App struct {
	HTTP     *http.Server
	Ready    *atomic.Bool
	Config   config.ServerConfig
	DenyList *safeguard.DenyList
	Deps     *Deps

	watcher *safeguard.Watcher

	mu       sync.Mutex
	listener net.Listener
}

// New creates and configures a new server application.
func New(ctx context.Context, cfg config.ServerConfig, scan config.ScanConfig, deps *Deps) (*App, error) {
	deps.Logger.Info().Msg("Initializing server application")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiCfg := api.FromServerConfig(cfg, scan)
	if err := apiCfg.Validate(); err != nil {
		return nil, fmt.Errorf("api config: %w", err)
	}

	if deps.Scanner == nil {
		deps.Scanner = scanexec.NewService().WithLogger(deps.Logger)
	}

	denyList := safeguard.NewDenyList(cfg.DenyList)
	deps.Logger.Info().Int("patterns", len(denyList.Patterns())).Msg("Deny list loaded")

	ready := &atomic.Bool{}
	apiDeps := &api.Deps{
		Scanner: deps.Scanner,
		Guard:   denyList,
		Config:  apiCfg,
		Ready:   ready,
	}

	router := httpx.NewRouter(apiDeps)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Addr, strconv.Itoa(cfg.Port)),
		Handler:      httpx.Chain(cfg, deps.Logger, router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	a := &App{
		HTTP:     httpServer,
		Ready:    ready,
		Config:   cfg,
		DenyList: denyList,
		Deps:     deps,
	}

	if deps.Config != nil && deps.Config.FilePath() != "" {
		w, err := safeguard.NewWatcher(deps.Config.FilePath(), a.reloadDenyList, deps.Logger)
		if err != nil {
			deps.Logger.Warn().Err(err).Msg("Deny list hot reload disabled")
		} else {
			a.watcher = w
		}
	}

	return a, nil
}

// reloadDenyList re-reads the config file and swaps in its deny list.
func (a *App) reloadDenyList() error {
	cfg, err := a.Deps.Config.ReloadFile()
	if err != nil {
		return err
	}
	a.DenyList.Replace(cfg.Server.DenyList)
	a.Deps.Logger.Info().Int("patterns", len(a.DenyList.Patterns())).Msg("Deny list reloaded")
	return nil
}

// Addr returns the bound listener address once Run has started listening.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return a.HTTP.Addr
	}
	return a.listener.Addr().String()
}

// Run starts the server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.Deps.Logger.Info().
		Str("addr", a.HTTP.Addr).
		Str("auth", a.Config.Auth.Mode).
		Int("max_ports", a.Config.MaxPorts).
		Msg("Starting NetLab server")

	ln, err := net.Listen("tcp", a.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.HTTP.Addr, err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	serverErr := make(chan error, 1)
	go func() {
		if err := a.HTTP.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if a.watcher != nil {
		go func() {
			if err := a.watcher.Start(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.Deps.Logger.Warn().Err(err).Msg("Config watcher stopped")
			}
		}()
	}

	a.Ready.Store(true)
	a.Deps.Logger.Info().Str("addr", ln.Addr().String()).Msg("Server is ready and accepting connections")

	select {
	case <-ctx.Done():
		a.Deps.Logger.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		a.Ready.Store(false)
		a.Deps.Logger.Error().Err(err).Msg("Server error")
		return err
	}

	return a.shutdown()
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() error {
	a.Deps.Logger.Info().Msg("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	a.Ready.Store(false)

	if err := a.HTTP.Shutdown(shutdownCtx); err != nil {
		a.Deps.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}

	a.Deps.Logger.Info().Msg("Server shutdown complete")
	return nil
}
