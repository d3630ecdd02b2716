package program

import (
	"testing"
	"time"

	"github.com/ftahirops/validatord/model"
)

type recordedEvent struct {
	kind  model.EventKind
	state model.State
}

type fakeBridge struct {
	events []recordedEvent
}

func (f *fakeBridge) Post(svc *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string) {
	f.events = append(f.events, recordedEvent{kind: kind, state: state})
}

func TestTickStartsFreshProcessWhenIdle(t *testing.T) {
	r := NewRunner()
	svc := &model.Service{Name: "job"}
	fb := &fakeBridge{}

	r.Tick(svc, "true", time.Second, fb)

	if len(fb.events) != 1 || fb.events[0].kind != model.EventStatus || fb.events[0].state != model.StateSucceeded {
		t.Fatalf("expected one Status SUCCEEDED launch event, got %v", fb.events)
	}
}

func TestTickDefersWhileRunningBelowTimeout(t *testing.T) {
	r := NewRunner()
	svc := &model.Service{Name: "job"}
	fb := &fakeBridge{}

	r.Tick(svc, "sleep 5", 10*time.Second, fb)
	before := len(fb.events)
	r.Tick(svc, "sleep 5", 10*time.Second, fb)

	if len(fb.events) != before {
		t.Fatalf("expected Tick to defer (no new events) while still within timeout, got %v", fb.events)
	}
}

func TestTickKillsAndRestartsAfterTimeout(t *testing.T) {
	r := NewRunner()
	svc := &model.Service{Name: "job"}
	fb := &fakeBridge{}

	r.Tick(svc, "sleep 10", 10*time.Millisecond, fb)
	time.Sleep(50 * time.Millisecond)
	r.Tick(svc, "sleep 10", 10*time.Millisecond, fb)

	var sawExited, sawRestarted bool
	for _, e := range fb.events {
		if e.kind == model.EventStatus && e.state == model.StateFailed {
			sawExited = true
		}
		if e.kind == model.EventStatus && e.state == model.StateSucceeded {
			sawRestarted = true
		}
	}
	if !sawRestarted {
		t.Fatalf("expected a restart launch event after timeout, got %v", fb.events)
	}
	_ = sawExited // status rules are empty in this test service, so no Failed is expected either
}
