package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/scrollwm/internal/config"
	"github.com/1broseidon/scrollwm/internal/daemon"
	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/hotkeys"
	"github.com/1broseidon/scrollwm/internal/input"
	"github.com/1broseidon/scrollwm/internal/platform"
	"github.com/1broseidon/scrollwm/internal/wm"
	"github.com/1broseidon/scrollwm/internal/x11"
)

const reconcileInterval = 10 * time.Second

func runDaemon() error {
	res, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config

	logger, level, err := config.NewLogger(os.Stderr, cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if res.File != "" {
		logger.Info("configuration loaded", "path", res.File, "bindings", len(cfg.Bindings))
	} else {
		logger.Info("no config file, using defaults")
	}

	display := displayName
	if display == "" {
		display = cfg.Display
	}
	conn, err := x11.NewConnection(display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer conn.Close()

	backend := platform.NewX11Backend(conn)
	var loop *daemon.Loop
	keys := hotkeys.NewHandler(conn.XUtil, conn.Root, func(key string, mods input.ModSet) {
		loop.KeyPressed(key, mods)
	}, logger.With("component", "hotkeys"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop, err = daemon.New(backend, daemon.Options{
		Config: cfg,
		Logger: logger,
		Level:  level,
		OnReload: func(c *config.Config) {
			rebind(keys, conn, c, logger)
		},
	})
	if err != nil {
		log.Fatalf("Failed to start window manager: %v", err)
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(ctx); err != nil {
			logger.Error("event loop failed", "error", err)
		}
	}()

	buttons := x11.Buttons{Move: cfg.MoveButton, Resize: cfg.ResizeButton}
	if err := conn.BecomeWM("scrollwm", x11Sink{loop: loop}, buttons); err != nil {
		if errors.Is(err, x11.ErrOtherWM) {
			log.Fatalf("Cannot manage display: %v", err)
		}
		log.Fatalf("Failed to take over the root window: %v", err)
	}
	if err := keys.Bind(mustTable(cfg), cfg.IgnoreLockModifiers); err != nil {
		logger.Error("no key bindings active", "error", err)
	}
	if err := conn.ManageExisting(); err != nil {
		logger.Warn("adopting existing windows failed", "error", err)
	}

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: reconcileInterval,
		Logger:   logger.With("component", "reconciler"),
	}, loop.Reconcile)
	go reconciler.Run(ctx)

	if path, err := watchedConfigPath(); err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	} else {
		go func() {
			err := config.Watch(ctx, path, logger.With("component", "config"), func(res *config.LoadResult) {
				loop.Reload(res.Config)
			})
			if err != nil {
				logger.Warn("config hot reload disabled", "path", path, "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading config")
					res, err := loadConfig()
					if err != nil {
						logger.Warn("config reload failed", "error", err)
						continue
					}
					loop.Reload(res.Config)
				default:
					logger.Info("shutting down", "signal", sig)
					cancel()
					conn.Quit()
					return
				}
			}
		}
	}()

	logger.Info("entering event loop")
	conn.EventLoop()

	cancel()
	<-loopDone
	return nil
}

// rebind swaps key grabs and drag buttons after a reload. It runs on the
// event loop goroutine once the core has accepted the new config.
func rebind(keys *hotkeys.Handler, conn *x11.Connection, cfg *config.Config, logger *slog.Logger) {
	table, err := cfg.BindingTable()
	if err != nil {
		logger.Warn("rebuild key bindings failed", "error", err)
		return
	}
	if err := keys.Bind(table, cfg.IgnoreLockModifiers); err != nil {
		logger.Error("no key bindings active", "error", err)
	}
	conn.SetButtons(x11.Buttons{Move: cfg.MoveButton, Resize: cfg.ResizeButton})
}

// mustTable builds the binding table of a config the loop already accepted.
func mustTable(cfg *config.Config) *input.Table {
	table, err := cfg.BindingTable()
	if err != nil {
		log.Fatalf("Invalid key bindings: %v", err)
	}
	return table
}

// x11Sink forwards X events to the event loop, translating X window ids
// into surface handles.
type x11Sink struct {
	loop *daemon.Loop
}

var _ x11.Sink = x11Sink{}

func (s x11Sink) OutputsChanged() { s.loop.OutputsChanged() }

func (s x11Sink) SurfaceMapped(win xproto.Window) {
	s.loop.SurfaceMapped(platform.SurfaceHandle(win))
}

func (s x11Sink) SurfaceChanged(win xproto.Window) {
	s.loop.SurfaceChanged(platform.SurfaceHandle(win))
}

func (s x11Sink) SurfaceUnmapped(win xproto.Window) {
	s.loop.SurfaceUnmapped(platform.SurfaceHandle(win))
}

func (s x11Sink) FocusIn(win xproto.Window) {
	s.loop.FocusIn(platform.SurfaceHandle(win))
}

func (s x11Sink) PointerMoved(p geometry.Point) { s.loop.PointerMoved(p) }

func (s x11Sink) DragBegan(win xproto.Window, kind x11.DragKind, p geometry.Point) {
	g := wm.GestureMove
	if kind == x11.DragResize {
		g = wm.GestureResize
	}
	s.loop.DragBegan(platform.SurfaceHandle(win), g, p)
}

func (s x11Sink) DragEnded(p geometry.Point) { s.loop.DragEnded(p) }
