package dispatch

import (
	"reflect"

	"github.com/kimberlypn/keydispatch/pkg/errors"
)

// Contract is the structural shape a base function must exhibit before a
// Dispatcher can be built on it: owner first, key second, a variadic tail
// absorbing whatever the handlers take, and no results.
type Contract struct {
	// Fixed is the number of non-variadic parameters.
	Fixed int
	// Variadic reports whether the function absorbs extra arguments.
	Variadic bool
	// Results is the number of declared results.
	Results int
}

// ContractOf describes the shape of fn. It returns ErrInvalidInput if fn
// is not a function.
func ContractOf(fn any) (Contract, error) {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return Contract{}, errors.New(errors.ErrInvalidInput, "not a function")
	}

	c := Contract{
		Fixed:    t.NumIn(),
		Variadic: t.IsVariadic(),
		Results:  t.NumOut(),
	}
	if c.Variadic {
		c.Fixed--
	}
	return c, nil
}

// ValidateBase checks fn against the base-function contract for key type
// K. The checks run in order and each failure is ErrContract:
//
//  1. fn is a function whose second fixed parameter has type K;
//  2. fn is variadic, so it can absorb any arguments forwarded to a
//     handler without interpreting them;
//  3. fn declares no results. The dispatch path never consults the base
//     function's return value, so declaring one is rejected outright
//     rather than silently ignored.
func ValidateBase[K comparable](fn any) error {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return errors.New(errors.ErrContract, "base must be a function")
	}

	keyType := reflect.TypeOf((*K)(nil)).Elem()
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	if fixed < 2 || t.In(1) != keyType {
		return errors.Newf(errors.ErrContract, "missing key parameter: second parameter must be %s", keyType).
			WithDetail("keyType", keyType.String())
	}

	if !t.IsVariadic() {
		return errors.New(errors.ErrContract, "must accept variadic trailing arguments")
	}

	if t.NumOut() != 0 {
		return errors.Newf(errors.ErrContract, "base function must not return, declares %d result(s)", t.NumOut())
	}

	return nil
}
