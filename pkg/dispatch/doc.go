// Package dispatch provides keyed handler dispatch registries: a base
// function declares a fixed calling contract once, callers register one
// handler per key against it, and every invocation runs the base hook
// first and then the handler selected by the key.
//
// Two registries are provided. Registry is statically typed: the owner,
// key, argument, and result types are fixed per registry and the base
// function's shape (owner first, key second, no results) is enforced by
// the type system. Dispatcher keeps the handler signatures open and
// validates the base function's shape by reflection at construction
// time, for call sites where handlers for different keys need different
// argument lists.
//
// Neither registry locks internally. Registration is a build phase:
// populate the table fully, then share the registry with concurrent
// callers as read-only. Concurrent registration, or registration
// overlapping with dispatch, is outside the contract.
package dispatch
