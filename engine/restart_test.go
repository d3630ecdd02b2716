package engine

import (
	"testing"

	"github.com/ftahirops/validatord/model"
)

type recordingPoster struct {
	events []model.Event
}

func (r *recordingPoster) Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string) {
	r.events = append(r.events, model.Event{Service: service.Name, Kind: kind, State: state, Action: action, Message: message})
}

// TestApplyRestartRateFiresTimeoutAtCount exercises the restart-flap
// scenario: count=3 within cycle=5 fires a Timeout FAILED as soon as NStart
// reaches the configured count, repeating on every later cycle until the
// window resets.
func TestApplyRestartRateFiresTimeoutAtCount(t *testing.T) {
	svc := &model.Service{
		Name:    "flapper",
		Restart: []model.RestartRate{{Count: 3, Cycles: 5, Action: model.ActionExec}},
	}
	poster := &recordingPoster{}

	svc.NStart = 2
	ApplyRestartRate(svc, poster)
	if len(poster.events) != 0 {
		t.Fatalf("expected no timeout below count threshold, got %d events", len(poster.events))
	}

	svc.NStart = 3
	ApplyRestartRate(svc, poster)
	if len(poster.events) != 1 {
		t.Fatalf("expected 1 timeout event once NStart reaches count, got %d", len(poster.events))
	}
	if poster.events[0].Kind != model.EventTimeout || poster.events[0].State != model.StateFailed {
		t.Fatalf("expected Timeout FAILED, got %s %s", poster.events[0].Kind, poster.events[0].State)
	}
}

// TestApplyRestartRateResetsAfterWindow confirms NStart/NCycle both reset
// once NCycle exceeds the widest configured window, per spec §4.7d.
func TestApplyRestartRateResetsAfterWindow(t *testing.T) {
	svc := &model.Service{
		Name:    "flapper",
		NStart:  3,
		Restart: []model.RestartRate{{Count: 3, Cycles: 5, Action: model.ActionExec}},
	}
	poster := &recordingPoster{}

	for i := 0; i < 6; i++ {
		ApplyRestartRate(svc, poster)
	}

	if svc.NStart != 0 || svc.NCycle != 0 {
		t.Fatalf("expected counters reset after 6 quiet cycles, got NStart=%d NCycle=%d", svc.NStart, svc.NCycle)
	}
}

func TestRecordRestartIncrementsNStart(t *testing.T) {
	svc := &model.Service{Name: "flapper"}
	RecordRestart(svc)
	RecordRestart(svc)
	if svc.NStart != 2 {
		t.Fatalf("expected NStart=2 after two restarts, got %d", svc.NStart)
	}
}
