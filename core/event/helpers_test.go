package event_test

import (
	"sync"
)

type UserCreated struct {
	ID    string
	Email string
}

type OrderPlaced struct {
	ID     string
	Amount int
}

type OrderShipped struct {
	ID string
}

type PaymentFailed struct {
	Reason string
}

func (PaymentFailed) EventName() string { return "payment.failed" }

// trace records strings from concurrent listeners in arrival order.
type trace struct {
	mu      sync.Mutex
	entries []string
}

func (t *trace) add(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, s)
}

func (t *trace) list() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.entries))
	copy(out, t.entries)
	return out
}
