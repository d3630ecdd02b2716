package checker

import (
	"log/slog"
	"os"
	"path/filepath"
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

func newTestContext(fb *fakeBridge) *Context {
	return &Context{Bridge: fb, Log: slog.Default()}
}

func TestCheckFileNonexistThenSucceeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x")

	svc := &model.Service{Name: "x", Type: model.ServiceFile, Path: path}
	fb := &fakeBridge{}
	ctx := newTestContext(fb)

	// Cycle 1: file absent.
	CheckFile(ctx, svc)
	if len(fb.events) != 1 || fb.events[0].kind != model.EventNonexist || fb.events[0].state != model.StateFailed {
		t.Fatalf("expected one Nonexist FAILED event, got %v", fb.events)
	}

	// Cycle 2: file now present and empty.
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	fb.events = nil
	CheckFile(ctx, svc)

	if len(fb.events) != 2 {
		t.Fatalf("expected Nonexist SUCCEEDED + Invalid SUCCEEDED, got %v", fb.events)
	}
	if fb.events[0].kind != model.EventNonexist || fb.events[0].state != model.StateSucceeded {
		t.Fatalf("expected Nonexist SUCCEEDED first, got %v", fb.events[0])
	}
	if fb.events[1].kind != model.EventInvalid || fb.events[1].state != model.StateSucceeded {
		t.Fatalf("expected Invalid SUCCEEDED second, got %v", fb.events[1])
	}
}

func TestCheckFileRejectsNonRegularFile(t *testing.T) {
	dir := t.TempDir()
	svc := &model.Service{Name: "dir-as-file", Type: model.ServiceFile, Path: dir}
	fb := &fakeBridge{}
	ctx := newTestContext(fb)

	CheckFile(ctx, svc)

	if len(fb.events) != 2 || fb.events[1].kind != model.EventInvalid || fb.events[1].state != model.StateFailed {
		t.Fatalf("expected Nonexist SUCCEEDED + Invalid FAILED, got %v", fb.events)
	}
}
