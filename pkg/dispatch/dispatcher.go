package dispatch

import (
	"reflect"

	"github.com/kimberlypn/keydispatch/pkg/errors"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Dispatcher is the reflective counterpart of Registry: the base function
// is validated against the Contract at construction, and handlers for
// different keys may take different argument lists. The trade is that
// handler signatures are not checked at registration; a handler must
// accept whatever the dispatch call sites forward, and a mismatch
// surfaces as a panic at call time.
type Dispatcher[K comparable] struct {
	base     reflect.Value
	handlers map[K]reflect.Value
}

// NewDispatcher validates base with ValidateBase and returns a dispatcher
// bound to it with an empty handler table. Construction is all-or-nothing.
func NewDispatcher[K comparable](base any) (*Dispatcher[K], error) {
	if err := ValidateBase[K](base); err != nil {
		return nil, err
	}
	return &Dispatcher[K]{
		base:     reflect.ValueOf(base),
		handlers: make(map[K]reflect.Value),
	}, nil
}

// Register returns a decorator that stores its handler under key and
// returns it unchanged. Last write wins.
func (d *Dispatcher[K]) Register(key K) func(handler any) any {
	return func(handler any) any {
		d.handlers[key] = reflect.ValueOf(handler)
		return handler
	}
}

// Dispatch calls base with (owner, key, args...), then the handler
// registered for key with (owner, args...). The handler's final result is
// treated as its error when it is one; the first result, if any, is the
// dispatch result. Panics raised by base or handler propagate to the
// caller unmodified, and an unregistered key fails with ErrKeyNotFound
// after the base hook has run.
func (d *Dispatcher[K]) Dispatch(owner any, key K, args ...any) (any, error) {
	baseArgs := make([]any, 0, len(args)+2)
	baseArgs = append(baseArgs, owner, key)
	baseArgs = append(baseArgs, args...)
	d.base.Call(callValues(d.base.Type(), baseArgs))

	handler, ok := d.handlers[key]
	if !ok {
		return nil, errors.Newf(errors.ErrKeyNotFound, "no handler registered for key %v", key).
			WithDetail("key", key)
	}

	handlerArgs := make([]any, 0, len(args)+1)
	handlerArgs = append(handlerArgs, owner)
	handlerArgs = append(handlerArgs, args...)
	return splitResults(handler.Call(callValues(handler.Type(), handlerArgs)))
}

// Has checks if a handler is registered for key
func (d *Dispatcher[K]) Has(key K) bool {
	_, ok := d.handlers[key]
	return ok
}

// Count returns the number of registered handlers
func (d *Dispatcher[K]) Count() int {
	return len(d.handlers)
}

// callValues converts in to reflect values for calling a function of type
// t, substituting typed zero values for untyped nils so they survive
// reflect.Call.
func callValues(t reflect.Type, in []any) []reflect.Value {
	values := make([]reflect.Value, len(in))
	for i, arg := range in {
		if arg == nil {
			values[i] = reflect.Zero(paramType(t, i))
		} else {
			values[i] = reflect.ValueOf(arg)
		}
	}
	return values
}

func paramType(t reflect.Type, i int) reflect.Type {
	if t.IsVariadic() && i >= t.NumIn()-1 {
		return t.In(t.NumIn() - 1).Elem()
	}
	return t.In(i)
}

// splitResults separates a handler's results into (result, error). The
// final result counts as the error channel when its type is error; a
// non-nil error suppresses the result, matching the (R, error) shape of
// the typed registry.
func splitResults(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}

	last := out[len(out)-1]
	if last.Type().Implements(errType) {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		if len(out) > 1 {
			return out[0].Interface(), nil
		}
		return nil, nil
	}

	return out[0].Interface(), nil
}
