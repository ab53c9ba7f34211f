package speechcortex

import (
	"sync"

	"github.com/charmbracelet/log"
)

// eventDispatcher fans one event out to every handler registered for its
// kind, synchronously and in registration order. A panicking handler is
// recovered and logged; the remaining handlers still run. emit is only
// ever called from the session goroutine, so handler invocations for one
// session are totally ordered.
type eventDispatcher struct {
	mu       sync.Mutex
	handlers map[EventKind][]func(Event)
	logger   *log.Logger
}

func newEventDispatcher(logger *log.Logger) *eventDispatcher {
	return &eventDispatcher{
		handlers: make(map[EventKind][]func(Event)),
		logger:   logger,
	}
}

func (d *eventDispatcher) register(kind EventKind, handler func(Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], handler)
}

func (d *eventDispatcher) emit(ev Event) {
	d.mu.Lock()
	registered := d.handlers[ev.Kind()]
	handlers := make([]func(Event), len(registered))
	copy(handlers, registered)
	d.mu.Unlock()

	for _, handler := range handlers {
		d.invoke(handler, ev)
	}
}

func (d *eventDispatcher) invoke(handler func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked", "event", ev.Kind(), "panic", r)
		}
	}()
	handler(ev)
}
