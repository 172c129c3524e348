package live

import (
	"sync"

	"github.com/gitaufar/technoday-sub001/internal/shared/metrics"
)

// MemoryBus is an in-process Bus for single-instance deployments and tests.
type MemoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	scope   Scope
	handler Handler
}

// NewMemoryBus constructs a MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]*subscription)}
}

// Publish delivers the event to every matching subscriber synchronously.
func (b *MemoryBus) Publish(ev Event) {
	b.mu.RLock()
	var matched []Handler
	for _, sub := range b.subs {
		if sub.scope.Matches(ev) {
			matched = append(matched, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range matched {
		metrics.IncLiveEvent(ev.Table)
		h(ev)
	}
}

// Subscribe registers a handler for the scope.
func (b *MemoryBus) Subscribe(scope Scope, handler Handler) CancelFunc {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = &subscription{scope: scope, handler: handler}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// SubscriberCount reports active subscriptions; tests use it to detect leaks.
func (b *MemoryBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

var _ Bus = (*MemoryBus)(nil)
