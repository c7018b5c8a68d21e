// Package daemon runs the window manager: it serializes collaborator
// events onto one goroutine that owns the core model.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/scrollwm/internal/config"
	"github.com/1broseidon/scrollwm/internal/geometry"
	"github.com/1broseidon/scrollwm/internal/input"
	"github.com/1broseidon/scrollwm/internal/platform"
	"github.com/1broseidon/scrollwm/internal/wm"
)

// Collaborator is the backend the loop drives. Beyond the core's outbound
// requests it reads surface state and matches resize acknowledgements.
type Collaborator interface {
	platform.Backend
	SurfaceState(h platform.SurfaceHandle) (platform.SurfaceState, error)
	Acknowledge(h platform.SurfaceHandle, size geometry.Size) (platform.Serial, bool)
	Forget(h platform.SurfaceHandle)
}

// Options configure a Loop. Config is required.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Level is adjusted when a reloaded config changes logging.level.
	Level   *slog.LevelVar
	Spawner input.Spawner
	// OnReload runs on the loop goroutine after a reloaded config has been
	// applied to the core.
	OnReload  func(*config.Config)
	QueueSize int
}

const defaultQueueSize = 256

// Loop owns the window manager and applies every event on the goroutine
// that calls Run. All exported event methods only enqueue and are safe to
// call from any goroutine.
type Loop struct {
	backend  Collaborator
	manager  *wm.Manager
	dispatch *input.Dispatcher
	logger   *slog.Logger
	level    *slog.LevelVar
	onReload func(*config.Config)

	events chan func(*Loop)
	done   chan struct{}
}

// New builds the core for cfg.
func New(backend Collaborator, opts Options) (*Loop, error) {
	if opts.Config == nil {
		return nil, errors.New("daemon: config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	table, err := opts.Config.BindingTable()
	if err != nil {
		return nil, fmt.Errorf("build key bindings: %w", err)
	}
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	m := wm.New(backend, logger.With("component", "wm"), optionsFor(opts.Config))
	d := input.NewDispatcher(table, m, opts.Spawner, logger.With("component", "input"))
	d.SetIgnored(opts.Config.IgnoredModifiers())

	return &Loop{
		backend:  backend,
		manager:  m,
		dispatch: d,
		logger:   logger,
		level:    opts.Level,
		onReload: opts.OnReload,
		events:   make(chan func(*Loop), size),
		done:     make(chan struct{}),
	}, nil
}

func optionsFor(cfg *config.Config) wm.Options {
	return wm.Options{
		ExcludedAppIDs: cfg.ExcludedAppIDs,
		DragScrollZone: cfg.DragScrollZone,
	}
}

// Run discovers the outputs and then applies queued events until ctx is
// cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.syncOutputs()
	l.logger.Info("event loop started", "state", l.manager)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopped")
			return nil
		case ev := <-l.events:
			ev(l)
		}
	}
}

func (l *Loop) enqueue(ev func(*Loop)) {
	select {
	case l.events <- ev:
	case <-l.done:
	}
}

// report logs a failed core operation. Stale references are expected when
// X events race with each other and only show at debug level.
func (l *Loop) report(op string, err error, args ...any) {
	if err == nil {
		return
	}
	args = append(args, "error", err)
	if errors.Is(err, wm.ErrNotFound) {
		l.logger.Debug(op+" skipped", args...)
		return
	}
	l.logger.Warn(op+" failed", args...)
}

func (l *Loop) OutputsChanged() { l.enqueue((*Loop).syncOutputs) }

func (l *Loop) SurfaceMapped(h platform.SurfaceHandle) {
	l.enqueue(func(l *Loop) { l.surfaceMapped(h) })
}

func (l *Loop) SurfaceChanged(h platform.SurfaceHandle) {
	l.enqueue(func(l *Loop) { l.surfaceChanged(h) })
}

func (l *Loop) SurfaceUnmapped(h platform.SurfaceHandle) {
	l.enqueue(func(l *Loop) { l.surfaceUnmapped(h) })
}

func (l *Loop) FocusIn(h platform.SurfaceHandle) {
	l.enqueue(func(l *Loop) { l.focusIn(h) })
}

func (l *Loop) PointerMoved(p geometry.Point) {
	l.enqueue(func(l *Loop) { l.manager.PointerMotion(p) })
}

// DragBegan starts a move or resize gesture on a surface at root position p.
func (l *Loop) DragBegan(h platform.SurfaceHandle, kind wm.GestureKind, p geometry.Point) {
	l.enqueue(func(l *Loop) { l.dragBegan(h, kind, p) })
}

func (l *Loop) DragEnded(p geometry.Point) {
	l.enqueue(func(l *Loop) { l.dragEnded(p) })
}

func (l *Loop) KeyPressed(key string, mods input.ModSet) {
	l.enqueue(func(l *Loop) { l.dispatch.HandleKey(key, mods) })
}

// Reload applies a new configuration.
func (l *Loop) Reload(cfg *config.Config) {
	l.enqueue(func(l *Loop) { l.report("apply config", l.applyConfig(cfg)) })
}

// Reconcile queues a pass that drops windows whose surfaces are gone and
// checks the model's invariants.
func (l *Loop) Reconcile() { l.enqueue((*Loop).reconcile) }

func (l *Loop) surfaceMapped(h platform.SurfaceHandle) {
	state, err := l.backend.SurfaceState(h)
	if err != nil {
		l.report("read surface", err, "surface", h)
		return
	}
	id, err := l.manager.SurfaceMapped(h, state)
	if err != nil {
		l.report("map surface", err, "surface", h)
		return
	}
	l.report("surface ready", l.manager.SurfaceReady(id), "window", id)
}

func (l *Loop) surfaceChanged(h platform.SurfaceHandle) {
	w, ok := l.manager.WindowBySurface(h)
	if !ok {
		return
	}
	state, err := l.backend.SurfaceState(h)
	if err != nil {
		l.report("read surface", err, "surface", h)
		return
	}
	serial, _ := l.backend.Acknowledge(h, state.Box.Size())
	l.report("commit surface", l.manager.SurfaceCommitted(w.ID, state, serial), "window", w.ID)
}

// surfaceUnmapped drops the window of a vanished surface. When it held the
// focus, the workspace's successor is focused: the X server reverts focus to
// the root and no FocusIn for a managed window follows on its own.
func (l *Loop) surfaceUnmapped(h platform.SurfaceHandle) {
	l.backend.Forget(h)
	w, ok := l.manager.WindowBySurface(h)
	if !ok {
		return
	}
	id, wsID := w.ID, w.Workspace
	focused := l.manager.ActiveWindow() == id
	if err := l.manager.SurfaceUnmapped(id); err != nil {
		l.report("unmap surface", err, "window", id)
		return
	}
	if !focused || l.manager.ActiveWindow() != 0 {
		return
	}
	if ws, ok := l.manager.Workspace(wsID); ok && ws.ActiveWindow != 0 {
		l.report("refocus after unmap", l.manager.FocusWindow(ws.ActiveWindow), "window", ws.ActiveWindow)
	}
}

func (l *Loop) focusIn(h platform.SurfaceHandle) {
	w, ok := l.manager.WindowBySurface(h)
	if !ok {
		return
	}
	l.report("focus gained", l.manager.FocusGained(w.ID), "window", w.ID)
}

func (l *Loop) dragBegan(h platform.SurfaceHandle, kind wm.GestureKind, p geometry.Point) {
	l.manager.PointerMotion(p)
	w, ok := l.manager.WindowBySurface(h)
	if !ok {
		return
	}
	switch kind {
	case wm.GestureMove:
		l.report("begin move", l.manager.BeginMove(w.ID), "window", w.ID)
	case wm.GestureResize:
		edges := EdgesFor(w.Rendered(), p)
		l.report("begin resize", l.manager.BeginResize(w.ID, edges), "window", w.ID)
	}
}

func (l *Loop) dragEnded(p geometry.Point) {
	l.manager.PointerMotion(p)
	l.report("end gesture", l.manager.EndGesture())
}

// EdgesFor picks the edges a resize grabs from where the pointer is inside
// the window: the nearer vertical edge always, plus the top or bottom edge
// when the pointer is in the outer third of the height.
func EdgesFor(r geometry.Rect, p geometry.Point) wm.Edges {
	var e wm.Edges
	if p.X < r.X+r.Width/2 {
		e |= wm.EdgeLeft
	} else {
		e |= wm.EdgeRight
	}
	switch {
	case p.Y < r.Y+r.Height/3:
		e |= wm.EdgeTop
	case p.Y >= r.Y+r.Height*2/3:
		e |= wm.EdgeBottom
	}
	return e
}

func (l *Loop) applyConfig(cfg *config.Config) error {
	table, err := cfg.BindingTable()
	if err != nil {
		return err
	}
	l.manager.SetOptions(optionsFor(cfg))
	l.manager.ArrangeAll()
	l.dispatch.SetTable(table)
	l.dispatch.SetIgnored(cfg.IgnoredModifiers())
	if l.level != nil {
		if lvl, err := config.ParseLevel(cfg.Logging.Level); err == nil {
			l.level.Set(lvl)
		}
	}
	if l.onReload != nil {
		l.onReload(cfg)
	}
	l.logger.Info("config applied", "bindings", table.Len(), "excluded_app_ids", cfg.ExcludedAppIDs)
	return nil
}
