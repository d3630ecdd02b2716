// Package engine implements the Scheduler (spec §4.7): per-cycle
// orchestration of the service list, including cycle skipping, restart-rate
// bookkeeping, administrative action injection, and dispatch to the
// type-specific ServiceCheckers.
package engine

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ftahirops/validatord/checker"
	"github.com/ftahirops/validatord/collector"
	"github.com/ftahirops/validatord/model"
	"github.com/ftahirops/validatord/program"
)

// ControlServiceFunc is the spec §6 `control_service(name, actionId) -> bool`
// collaborator: dispatch an administrative action to the external
// alert/action subsystem.
type ControlServiceFunc func(name string, action model.ActionRef) bool

// Scheduler owns the service list and runs one cycle at a time (spec §4.7).
type Scheduler struct {
	Services []*model.Service
	Sys      *collector.SysInfo
	Tree     *collector.Tree

	Bridge        checker.EventPoster
	Runner        *program.Runner
	Log           *slog.Logger
	ControlService ControlServiceFunc

	stopped atomic.Bool
}

// NewScheduler constructs a Scheduler ready to run against services.
func NewScheduler(services []*model.Service, sys *collector.SysInfo, bridge checker.EventPoster, runner *program.Runner, log *slog.Logger, control ControlServiceFunc) *Scheduler {
	if control == nil {
		control = func(string, model.ActionRef) bool { return false }
	}
	return &Scheduler{
		Services:       services,
		Sys:            sys,
		Bridge:         bridge,
		Runner:         runner,
		Log:            log,
		ControlService: control,
	}
}

// Stop requests the scheduler halt between services (spec §5 "cancellation
// is cooperative via the global stopped flag checked between services").
func (s *Scheduler) Stop() { s.stopped.Store(true) }

// Tick runs exactly one cycle (spec §4.7 steps 1-6) and returns the number
// of rule/observation failures posted during it.
func (s *Scheduler) Tick() int {
	now := time.Now()

	if err := s.Sys.Refresh(); err != nil {
		s.Log.Error("sysinfo refresh failed", "error", err)
	}
	if tree, err := collector.BuildTree(); err != nil {
		s.Log.Error("process tree refresh failed", "error", err)
	} else {
		s.Tree = tree
	}

	anyPending := false
	for _, svc := range s.Services {
		if svc.PendingAction != "" {
			anyPending = true
			break
		}
	}
	if anyPending {
		for _, svc := range s.Services {
			s.doScheduledAction(svc)
		}
	}

	counting := &countingPoster{inner: s.Bridge}

	for _, svc := range s.Services {
		if s.stopped.Load() {
			break
		}

		s.doScheduledAction(svc)

		if svc.Visited {
			continue
		}

		if ApplyEvery(svc, now, s.Log) {
			continue
		}

		ApplyRestartRate(svc, counting)

		ctx := &checker.Context{
			Bridge: counting,
			Sys:    s.Sys,
			Tree:   s.Tree,
			Runner: s.Runner,
			Log:    s.Log,
		}
		checker.Dispatch(ctx, svc)

		if svc.Monitor != model.MonitorNot {
			svc.Monitor |= model.MonitorYes
			svc.Monitor &^= model.MonitorInit
		}
		svc.LastCycleCollected = now
	}

	for _, svc := range s.Services {
		svc.Visited = false
	}

	return counting.failures
}

// doScheduledAction dispatches a pending administrative action (spec §4.7
// step 3/4a `do_scheduled_action`) and clears it regardless of outcome —
// the external subsystem owns retry semantics for actions, not the
// scheduler.
func (s *Scheduler) doScheduledAction(svc *model.Service) {
	if svc.PendingAction == "" {
		return
	}
	action := model.ActionRef(svc.PendingAction)
	ok := s.ControlService(svc.Name, action)
	if !ok {
		s.Log.Error("scheduled action failed", "service", svc.Name, "action", action)
	}
	svc.PendingAction = ""
}

// countingPoster wraps an EventPoster to count FAILED posts for Tick's
// return value (spec §4.7 step 6 "return error count").
type countingPoster struct {
	inner    checker.EventPoster
	failures int
}

func (c *countingPoster) Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string) {
	if state == model.StateFailed {
		c.failures++
	}
	c.inner.Post(service, kind, state, action, message)
}
