package notifications

import (
	"fmt"

	"github.com/gimlet-io/hookcast/pkg/event"
)

// Registry maps event types to the function rendering them for one target.
// Registries are filled when a provider is constructed and only read after.
type Registry[T any] struct {
	builders map[event.Type]func(event.Event) T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{builders: map[event.Type]func(event.Event) T{}}
}

// register binds build to the event type of E. Registering a type twice is a
// programming error.
func register[E event.Event, T any](r *Registry[T], build func(E) T) {
	var zero E
	t := zero.Type()
	if _, exists := r.builders[t]; exists {
		panic(fmt.Sprintf("duplicate builder for %s events", t))
	}
	r.builders[t] = func(e event.Event) T {
		return build(e.(E))
	}
}

// Build renders e. ok is false when no builder is registered for its type.
func (r *Registry[T]) Build(e event.Event) (msg T, ok bool) {
	build, ok := r.builders[e.Type()]
	if !ok {
		return msg, false
	}
	return build(e), true
}

func (r *Registry[T]) Has(t event.Type) bool {
	_, ok := r.builders[t]
	return ok
}
