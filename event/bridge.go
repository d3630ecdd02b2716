// Package event implements EventBridge (spec §4.8): the core's single
// outbound contract with the external event queue. Posting is fire-and-
// forget and idempotent on identical (service, eventKind, state) pairs
// across adjacent cycles.
package event

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"

	"github.com/ftahirops/validatord/model"
)

// Store persists posted events for the external event queue. Implementations
// are fire-and-forget from the core's perspective: Append errors are logged,
// never propagated, since a storage failure must not stall the cycle (spec
// §7: only the Connection probe retries; everything else recovers next
// cycle).
type Store interface {
	Append(model.Event) error
	Close() error
}

// Bridge is the concrete EventBridge: it applies the idempotency rule, then
// forwards to a Store.
type Bridge struct {
	store Store
	log   *slog.Logger

	mu   sync.Mutex
	last map[dedupeKey]model.State
}

type dedupeKey struct {
	service string
	kind    model.EventKind
}

// New creates a Bridge backed by store. A nil logger falls back to
// slog.Default().
func New(store Store, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{store: store, log: log, last: make(map[dedupeKey]model.State)}
}

// Post is the sole EventBridge operation (spec §4.8). It is a no-op when the
// (service, kind, state) triple is identical to what was posted for this
// service/kind last cycle — the queue's idempotency contract means posting
// again would be redundant, not wrong, but the core still avoids it to keep
// the log and Store append-only meaningful.
func (b *Bridge) Post(service *model.Service, kind model.EventKind, state model.State, action model.ActionRef, message string) {
	key := dedupeKey{service: service.Name, kind: kind}

	b.mu.Lock()
	prev, seen := b.last[key]
	same := seen && prev == state
	b.last[key] = state
	b.mu.Unlock()

	if same {
		return
	}

	evt := model.Event{
		ID:        uuid.NewString(),
		Service:   service.Name,
		Kind:      kind,
		State:     state,
		Action:    action,
		Message:   formatMessage(message),
		Timestamp: time.Now(),
	}

	if err := b.store.Append(evt); err != nil {
		b.log.Warn("event store append failed", "service", service.Name, "kind", kind, "error", err)
	}

	b.log.Info("event posted",
		"service", service.Name, "kind", kind.String(), "state", state.String(),
		"action", action, "message", evt.Message)
}

// formatMessage stamps the message with a strftime-formatted timestamp
// prefix, matching monit's own report convention of leading each report
// with a readable date.
func formatMessage(message string) string {
	ts, err := strftime.Format("%Y-%m-%d %H:%M:%S", time.Now())
	if err != nil {
		return message
	}
	return ts + " " + message
}

// Close releases the underlying Store.
func (b *Bridge) Close() error { return b.store.Close() }
