package rule

import (
	"testing"

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

func TestChecksumSeedsOnFirstCycleWithoutEvent(t *testing.T) {
	svc := &model.Service{Name: "svc"}
	r := &model.ChecksumRule{ChangeDetect: true}
	fb := &fakeBridge{}

	Checksum(svc, r, "60b725f10c9c85c70d97880dfe8191b3", nil, fb)

	if len(fb.events) != 0 {
		t.Fatalf("expected no event on seed cycle, got %v", fb.events)
	}
	if !r.Initialized || r.Expected != "60b725f10c9c85c70d97880dfe8191b3" {
		t.Fatalf("expected rule seeded, got %+v", r)
	}
}

func TestChecksumUnchangedReportsChangedNot(t *testing.T) {
	svc := &model.Service{Name: "svc"}
	r := &model.ChecksumRule{ChangeDetect: true, Initialized: true, Expected: "60b725f10c9c85c70d97880dfe8191b3"}
	fb := &fakeBridge{}

	Checksum(svc, r, "60b725f10c9c85c70d97880dfe8191b3", nil, fb)

	if len(fb.events) != 1 || fb.events[0].kind != model.EventChecksum || fb.events[0].state != model.StateChangedNot {
		t.Fatalf("expected one ChangedNot event, got %v", fb.events)
	}
}

func TestChecksumChangeDetectRotatesExpected(t *testing.T) {
	svc := &model.Service{Name: "svc"}
	r := &model.ChecksumRule{ChangeDetect: true, Initialized: true, Expected: "60b725f10c9c85c70d97880dfe8191b3"}
	fb := &fakeBridge{}

	Checksum(svc, r, "3B9F0C7B617CA3AC", nil, fb)

	if len(fb.events) != 1 || fb.events[0].state != model.StateChanged {
		t.Fatalf("expected one Changed event, got %v", fb.events)
	}
	if r.Expected != "3b9f0c7b617ca3ac" {
		t.Fatalf("expected hash to rotate to new lowercase digest, got %s", r.Expected)
	}
}

func TestChecksumComputeErrorPostsDataEvent(t *testing.T) {
	svc := &model.Service{Name: "svc"}
	r := &model.ChecksumRule{ChangeDetect: true, Initialized: true}
	fb := &fakeBridge{}

	Checksum(svc, r, "", errFake, fb)

	if len(fb.events) != 1 || fb.events[0].kind != model.EventData || fb.events[0].state != model.StateFailed {
		t.Fatalf("expected one Data FAILED event, got %v", fb.events)
	}
}

var errFake = fakeErr{}

type fakeErr struct{}

func (fakeErr) Error() string { return "compute failed" }
