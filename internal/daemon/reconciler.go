package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/scrollwm/internal/platform"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically asks the loop to check for state drift, such as
// a destroy event that never arrived or an output change the server did
// not announce.
type Reconciler struct {
	interval time.Duration
	trigger  func()
	logger   *slog.Logger
}

// NewReconciler creates a reconciler that calls trigger on every tick.
func NewReconciler(cfg ReconcilerConfig, trigger func()) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval: interval,
		trigger:  trigger,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.trigger()
		}
	}
}

// syncOutputs brings the monitors in line with the collaborator's outputs.
// Vanished outputs are removed first so a replugged output gets its old
// workspace back.
func (l *Loop) syncOutputs() {
	outs, err := l.backend.Outputs()
	if err != nil {
		l.logger.Warn("list outputs failed", "error", err)
		return
	}
	if len(outs) == 0 {
		l.logger.Warn("no outputs reported, keeping current monitors")
		return
	}

	seen := make(map[platform.OutputHandle]bool, len(outs))
	for _, o := range outs {
		seen[o.Handle] = true
	}
	for _, id := range l.manager.Monitors() {
		mon, ok := l.manager.Monitor(id)
		if !ok || seen[mon.Output] {
			continue
		}
		l.report("remove output", l.manager.OutputRemoved(id), "monitor", id, "name", mon.Name)
	}
	for _, o := range outs {
		if mon, ok := l.manager.MonitorByOutput(o.Handle); ok {
			l.report("update output", l.manager.OutputChanged(mon.ID, o.Bounds), "monitor", mon.ID)
			continue
		}
		l.manager.OutputAdded(o)
	}
}

// reconcile performs a single reconciliation pass.
func (l *Loop) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	l.syncOutputs()

	alive, err := l.backend.Surfaces()
	if err != nil {
		l.logger.Error("reconciler: failed to list surfaces", "error", err)
		return
	}
	actual := make(map[platform.SurfaceHandle]bool, len(alive))
	for _, h := range alive {
		actual[h] = true
	}

	for _, id := range l.manager.Windows() {
		w, ok := l.manager.Window(id)
		if !ok || actual[w.Surface] {
			continue
		}
		l.logger.Info("reconciler: orphaned window detected", "window", id, "surface", w.Surface, "app_id", w.View.AppID)
		l.backend.Forget(w.Surface)
		l.report("unmap orphaned window", l.manager.SurfaceUnmapped(id), "window", id)
	}

	if err := l.manager.CheckInvariants(); err != nil {
		l.logger.Error("reconciler: invariant violation", "error", err)
	}
	l.logger.Debug("reconciled", "state", l.manager)
}
