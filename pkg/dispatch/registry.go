package dispatch

import (
	"fmt"

	"github.com/kimberlypn/keydispatch/pkg/errors"
)

// BaseFunc is the shared pre-dispatch hook. It runs before every handler,
// receives the same key and arguments the handler selection is based on,
// and has no results: its only sanctioned purpose is side effects such as
// logging or counters.
type BaseFunc[O any, K comparable, A any] func(owner O, key K, args A)

// HandlerFunc handles one key. It does not receive the key again; the key
// is implicit in which handler was selected.
type HandlerFunc[O, A, R any] func(owner O, args A) (R, error)

// Registry maps keys to handlers for one base function. The zero value is
// not usable; construct with New.
type Registry[O any, K comparable, A any, R any] struct {
	base     BaseFunc[O, K, A]
	handlers map[K]HandlerFunc[O, A, R]
}

// New creates a registry bound to base with an empty handler table.
// Construction is all-or-nothing: a nil base fails with ErrContract and no
// registry is produced.
func New[O any, K comparable, A any, R any](base BaseFunc[O, K, A]) (*Registry[O, K, A, R], error) {
	if base == nil {
		return nil, errors.New(errors.ErrContract, "base function is required")
	}
	return &Registry[O, K, A, R]{
		base:     base,
		handlers: make(map[K]HandlerFunc[O, A, R]),
	}, nil
}

// MustNew creates a registry and panics if construction fails. Useful for
// package-level registries built at init time, where a contract violation
// is a programming error.
func MustNew[O any, K comparable, A any, R any](base BaseFunc[O, K, A]) *Registry[O, K, A, R] {
	reg, err := New[O, K, A, R](base)
	if err != nil {
		panic(fmt.Sprintf("dispatch: %v", err))
	}
	return reg
}

// Register returns a decorator that stores its handler under key and
// returns the handler unchanged, so the handler stays independently
// callable. Registering the same key again replaces the prior handler.
func (r *Registry[O, K, A, R]) Register(key K) func(HandlerFunc[O, A, R]) HandlerFunc[O, A, R] {
	return func(handler HandlerFunc[O, A, R]) HandlerFunc[O, A, R] {
		r.handlers[key] = handler
		return handler
	}
}

// Handle stores handler under key. It is Register(key)(handler) without
// the decorator indirection.
func (r *Registry[O, K, A, R]) Handle(key K, handler HandlerFunc[O, A, R]) {
	r.handlers[key] = handler
}

// Dispatch runs the base hook with (owner, key, args), then the handler
// registered for key with (owner, args), and returns the handler's result.
// The base hook always runs first, including when the key turns out to be
// unregistered; that case fails with ErrKeyNotFound, distinct from any
// error the handler itself returns.
func (r *Registry[O, K, A, R]) Dispatch(owner O, key K, args A) (R, error) {
	r.base(owner, key, args)

	handler, ok := r.handlers[key]
	if !ok {
		var zero R
		return zero, errors.Newf(errors.ErrKeyNotFound, "no handler registered for key %v", key).
			WithDetail("key", key)
	}

	return handler(owner, args)
}

// Has checks if a handler is registered for key
func (r *Registry[O, K, A, R]) Has(key K) bool {
	_, ok := r.handlers[key]
	return ok
}

// Keys returns the registered keys in unspecified order
func (r *Registry[O, K, A, R]) Keys() []K {
	keys := make([]K, 0, len(r.handlers))
	for key := range r.handlers {
		keys = append(keys, key)
	}
	return keys
}

// Count returns the number of registered handlers
func (r *Registry[O, K, A, R]) Count() int {
	return len(r.handlers)
}
