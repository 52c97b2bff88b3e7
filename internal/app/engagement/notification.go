package engagement

import (
	"log"

	"github.com/whoamaiii/devxp/internal/domain"
)

// Notifier fans engagement events out to registered listeners. Dispatch is
// synchronous, in registration order, on the calling goroutine. A panicking
// listener is recovered and logged so one bad handler can neither break the
// others nor fail the computation that produced the event.
type Notifier struct {
	listeners []func(domain.Event)
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a listener. Listeners cannot be removed; hosts build
// the set once at startup.
func (n *Notifier) Subscribe(fn func(domain.Event)) {
	if fn == nil {
		return
	}
	n.listeners = append(n.listeners, fn)
}

// Emit delivers each event to every listener.
func (n *Notifier) Emit(events ...domain.Event) {
	for _, ev := range events {
		for i, fn := range n.listeners {
			n.deliver(i, fn, ev)
		}
	}
}

func (n *Notifier) deliver(idx int, fn func(domain.Event), ev domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engagement] listener %d panicked on %s event: %v", idx, ev.Type, r)
		}
	}()
	fn(ev)
}
