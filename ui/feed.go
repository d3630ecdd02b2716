package ui

import (
	"sync"

	"github.com/ftahirops/validatord/model"
)

// maxFeedEvents bounds the in-memory event ring the TUI keeps for display;
// the authoritative history lives in the event.Store, not here.
const maxFeedEvents = 200

// EventFeed wraps an EventPoster, forwarding every Post call through while
// also retaining the most recent events for the dashboard's event panel.
type EventFeed struct {
	inner interface {
		Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string)
	}

	mu     sync.Mutex
	events []model.Event
}

// NewEventFeed wraps inner, which receives every posted event unchanged.
func NewEventFeed(inner interface {
	Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string)
}) *EventFeed {
	return &EventFeed{inner: inner}
}

// Post implements checker.EventPoster / engine scheduler's Bridge contract.
func (f *EventFeed) Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string) {
	f.inner.Post(service, kind, state, action, message)

	f.mu.Lock()
	f.events = append(f.events, model.Event{
		Service: service.Name, Kind: kind, State: state, Action: action, Message: message,
	})
	if len(f.events) > maxFeedEvents {
		f.events = f.events[len(f.events)-maxFeedEvents:]
	}
	f.mu.Unlock()
}

// Recent returns a snapshot of the most recently posted events, newest last.
func (f *EventFeed) Recent() []model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Event, len(f.events))
	copy(out, f.events)
	return out
}
