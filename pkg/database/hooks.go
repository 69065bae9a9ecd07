package database

import (
	"sync"
	"time"
)

// EventKind identifies the class of a client event.
type EventKind string

const (
	KindQuery EventKind = "query"
	KindInfo  EventKind = "info"
	KindWarn  EventKind = "warn"
	KindError EventKind = "error"
)

// Event describes a single client occurrence. For query events SQL carries
// the statement with placeholders; parameter values are never included.
type Event struct {
	Kind     EventKind
	Message  string
	SQL      string
	Rows     int64
	Duration time.Duration
	Err      error
	At       time.Time
}

// Handler receives dispatched events. Handlers run synchronously on the
// calling goroutine and must not block.
type Handler func(Event)

// Hooks is a fan-out registry for client events.
type Hooks struct {
	mu       sync.RWMutex
	handlers map[EventKind][]Handler
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{handlers: make(map[EventKind][]Handler)}
}

// On registers a handler for the given event kind.
func (h *Hooks) On(kind EventKind, handler Handler) {
	if handler == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[kind] = append(h.handlers[kind], handler)
}

func (h *Hooks) emit(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.RLock()
	handlers := h.handlers[ev.Kind]
	h.mu.RUnlock()
	for _, handler := range handlers {
		handler(ev)
	}
}
