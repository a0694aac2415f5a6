// Package eventbus delivers typed state changes between controllers.
package eventbus

import (
	"sync"

	"go.uber.org/fx"
)

// Module provides the process wide Bus.
var Module = fx.Provide(New)

// Topic names a stream of values of a single type.
type Topic[T any] struct {
	name string
}

// NewTopic creates a Topic. Topics with the same name and type share subscribers.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the topic name.
func (t Topic[T]) Name() string {
	return t.name
}

// Bus holds the subscribers of every topic.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber
}

type subscriber struct {
	id uint64
	fn interface{}
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		subs: make(map[string][]subscriber),
	}
}

// Subscribe registers fn for values published on topic. The returned func removes the subscription.
func Subscribe[T any](b *Bus, topic Topic[T], fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic.name] = append(b.subs[topic.name], subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		current := b.subs[topic.name]
		for i, s := range current {
			if s.id == id {
				b.subs[topic.name] = append(current[:i:i], current[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers v to the subscribers of topic on the calling goroutine, in subscription order.
// Subscribers registered with a different value type under the same name are skipped.
func Publish[T any](b *Bus, topic Topic[T], v T) {
	b.mu.RLock()
	subs := b.subs[topic.name]
	b.mu.RUnlock()

	for _, s := range subs {
		if fn, ok := s.fn.(func(T)); ok {
			fn(v)
		}
	}
}
