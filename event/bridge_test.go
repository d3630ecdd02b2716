package event

import (
	"testing"

	"github.com/ftahirops/validatord/model"
)

func TestBridgePostIsIdempotentAcrossAdjacentCycles(t *testing.T) {
	store := NewMemoryStore()
	b := New(store, nil)
	svc := &model.Service{Name: "svc-a"}

	b.Post(svc, model.EventNonexist, model.StateSucceeded, model.ActionNonexist, "ok")
	b.Post(svc, model.EventNonexist, model.StateSucceeded, model.ActionNonexist, "ok")

	if len(store.Events) != 1 {
		t.Fatalf("expected 1 event after two identical posts, got %d", len(store.Events))
	}
}

func TestBridgePostsOnStateTransition(t *testing.T) {
	store := NewMemoryStore()
	b := New(store, nil)
	svc := &model.Service{Name: "svc-a"}

	b.Post(svc, model.EventNonexist, model.StateFailed, model.ActionNonexist, "missing")
	b.Post(svc, model.EventNonexist, model.StateSucceeded, model.ActionNonexist, "present")

	if len(store.Events) != 2 {
		t.Fatalf("expected 2 events across a state transition, got %d", len(store.Events))
	}
	if store.Events[1].State != model.StateSucceeded {
		t.Fatalf("expected second event SUCCEEDED, got %s", store.Events[1].State)
	}
}

func TestBridgePostsDistinctKindsIndependently(t *testing.T) {
	store := NewMemoryStore()
	b := New(store, nil)
	svc := &model.Service{Name: "svc-b"}

	b.Post(svc, model.EventPermission, model.StateSucceeded, "", "perm ok")
	b.Post(svc, model.EventUID, model.StateSucceeded, "", "uid ok")

	if len(store.Events) != 2 {
		t.Fatalf("distinct event kinds must both post, got %d", len(store.Events))
	}
}
