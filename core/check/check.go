// Package check provides the combinators used to assemble compatibility
// rules into trees. A Check compares the old and new version of one symbol,
// member or parameter and returns the changes it found.
package check

import (
	"errors"
	"fmt"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/symbols"
)

// ErrPrecondition marks a contract violation by the caller of a check, such
// as comparing two members with different identities. Catching does not
// absorb it.
var ErrPrecondition = errors.New("check precondition violated")

// Scopes carries the snapshots that types on each side resolve against.
type Scopes struct {
	From *symbols.Snapshot
	To   *symbols.Snapshot
}

// Check evaluates one compatibility concern for a matched pair.
type Check[T any] interface {
	Check(scopes Scopes, from, to T) (changespec.Changes, error)
}

// Func adapts a function to the Check interface.
type Func[T any] func(scopes Scopes, from, to T) (changespec.Changes, error)

func (f Func[T]) Check(scopes Scopes, from, to T) (changespec.Changes, error) {
	return f(scopes, from, to)
}

type allOf[T any] struct {
	checks []Check[T]
}

// AllOf runs every check on the same pair and merges the results in order.
func AllOf[T any](checks ...Check[T]) Check[T] {
	return allOf[T]{checks: checks}
}

func (a allOf[T]) Check(scopes Scopes, from, to T) (changespec.Changes, error) {
	result := changespec.Empty()
	for _, c := range a.checks {
		changes, err := c.Check(scopes, from, to)
		if err != nil {
			return changespec.Empty(), err
		}
		result = result.Merge(changes)
	}
	return result, nil
}

type catching[T any] struct {
	inner Check[T]
}

// Catching isolates failures of inner: a returned error or a panic becomes a
// single skipped change. Precondition violations are passed through.
func Catching[T any](inner Check[T]) Check[T] {
	return catching[T]{inner: inner}
}

func (c catching[T]) Check(scopes Scopes, from, to T) (changes changespec.Changes, err error) {
	defer func() {
		if r := recover(); r != nil {
			changes = changespec.FromList(changespec.Skipped(about(from, fmt.Errorf("%v", r))))
			err = nil
		}
	}()

	changes, err = c.inner.Check(scopes, from, to)
	if err != nil {
		if errors.Is(err, ErrPrecondition) {
			return changespec.Empty(), err
		}
		return changespec.FromList(changespec.Skipped(about(from, err))), nil
	}
	return changes, nil
}

// about prefixes err with the name of the symbol a check failed on.
func about(subject any, err error) error {
	var name string
	switch s := subject.(type) {
	case *symbols.Class:
		if s != nil {
			name = s.Name
		}
	case *symbols.Method:
		if s != nil {
			name = s.DisplayName()
		}
	case *symbols.Function:
		if s != nil {
			name = s.DisplayName()
		}
	case *symbols.Property:
		if s != nil {
			name = s.DisplayName()
		}
	case *symbols.Constant:
		if s != nil {
			name = s.DisplayName()
		}
	case *symbols.Parameter:
		if s != nil {
			name = "$" + s.Name
		}
	}
	if name == "" {
		return err
	}
	return fmt.Errorf("%s: %w", name, err)
}

type when[T any] struct {
	pred  func(from, to T) bool
	inner Check[T]
}

// When runs inner only if pred holds for the pair.
func When[T any](pred func(from, to T) bool, inner Check[T]) Check[T] {
	return when[T]{pred: pred, inner: inner}
}

// Unless runs inner only if pred does not hold for the pair.
func Unless[T any](pred func(from, to T) bool, inner Check[T]) Check[T] {
	return when[T]{pred: func(from, to T) bool { return !pred(from, to) }, inner: inner}
}

func (w when[T]) Check(scopes Scopes, from, to T) (changespec.Changes, error) {
	if !w.pred(from, to) {
		return changespec.Empty(), nil
	}
	return w.inner.Check(scopes, from, to)
}

// Either routes the pair to ifTrue or ifFalse depending on pred.
func Either[T any](pred func(from, to T) bool, ifTrue, ifFalse Check[T]) Check[T] {
	return AllOf(When(pred, ifTrue), Unless(pred, ifFalse))
}
