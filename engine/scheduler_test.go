package engine

import (
	"testing"

	"github.com/ftahirops/validatord/collector"
	"github.com/ftahirops/validatord/model"
)

func newTestScheduler(services []*model.Service) *Scheduler {
	sys := &collector.SysInfo{}
	return NewScheduler(services, sys, &recordingPoster{}, nil, discardLogger(), nil)
}

// TestSchedulerTickMarksMonitoredAndStampsCycle covers the System service
// path end to end: no Resource rules means CheckSystem posts nothing, so a
// clean cycle should report zero failures while still stamping Monitor and
// LastCycleCollected. Monitor starts at MonitorInit, matching what
// config.BuildServices seeds for every real service.
func TestSchedulerTickMarksMonitoredAndStampsCycle(t *testing.T) {
	svc := &model.Service{Name: "sys", Type: model.ServiceSystem, Monitor: model.MonitorInit}
	sched := newTestScheduler([]*model.Service{svc})

	failures := sched.Tick()

	if failures != 0 {
		t.Fatalf("expected 0 failures from an unconstrained system service, got %d", failures)
	}
	if !svc.Monitor.Has(model.MonitorYes) {
		t.Fatalf("expected Monitor Yes bit set after a successful cycle")
	}
	if svc.Monitor.Has(model.MonitorInit) {
		t.Fatalf("expected Monitor Init bit cleared after the first successful cycle")
	}
	if svc.LastCycleCollected.IsZero() {
		t.Fatalf("expected LastCycleCollected to be stamped")
	}
	if svc.Visited {
		t.Fatalf("expected Visited reset to false at the end of the cycle")
	}
}

// TestSchedulerTickSkipsServiceOutsideCronMask exercises the "every cron
// skip" scenario: a service whose EVERY_CRON spec never matches the current
// cycle is left Waiting and its checker never runs.
func TestSchedulerTickSkipsServiceOutsideCronMask(t *testing.T) {
	svc := &model.Service{
		Name:  "sys",
		Type:  model.ServiceSystem,
		Every: model.Every{Kind: model.EveryCron, CronSpec: "0 0 1 1 *"},
	}
	sched := newTestScheduler([]*model.Service{svc})

	sched.Tick()

	if !svc.Monitor.Has(model.MonitorWaiting) {
		t.Fatalf("expected Waiting bit set for a service outside its cron mask")
	}
	if !svc.LastCycleCollected.IsZero() {
		t.Fatalf("expected LastCycleCollected untouched when the checker never runs")
	}
}

func TestSchedulerStopHaltsBetweenServices(t *testing.T) {
	a := &model.Service{Name: "a", Type: model.ServiceSystem}
	b := &model.Service{Name: "b", Type: model.ServiceSystem}
	sched := newTestScheduler([]*model.Service{a, b})
	sched.Stop()

	sched.Tick()

	if !a.LastCycleCollected.IsZero() || !b.LastCycleCollected.IsZero() {
		t.Fatalf("expected a pre-stopped scheduler to dispatch no services")
	}
}

func TestSchedulerTickRunsScheduledActionAndClearsIt(t *testing.T) {
	svc := &model.Service{Name: "a", Type: model.ServiceSystem, PendingAction: "restart"}
	var gotName string
	var gotAction model.ActionRef
	sys := &collector.SysInfo{}
	sched := NewScheduler([]*model.Service{svc}, sys, &recordingPoster{}, nil, discardLogger(),
		func(name string, action model.ActionRef) bool {
			gotName, gotAction = name, action
			return true
		})

	sched.Tick()

	if gotName != "a" || gotAction != model.ActionRef("restart") {
		t.Fatalf("expected ControlService invoked with (a, restart), got (%s, %s)", gotName, gotAction)
	}
	if svc.PendingAction != "" {
		t.Fatalf("expected PendingAction cleared after dispatch")
	}
}
