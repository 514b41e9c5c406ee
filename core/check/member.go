package check

import (
	"fmt"
	"strings"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/symbols"
)

// OnlyVisibility runs inner only for members declared with visibility v in
// the old version.
func OnlyVisibility[M symbols.Member](v symbols.Visibility, inner Check[M]) Check[M] {
	return When(func(from, _ M) bool {
		return from.MemberVisibility().String() == v.String()
	}, inner)
}

// OnlyPublic restricts inner to members that were public.
func OnlyPublic[M symbols.Member](inner Check[M]) Check[M] {
	return OnlyVisibility(symbols.Public, inner)
}

// OnlyProtected restricts inner to members that were protected.
func OnlyProtected[M symbols.Member](inner Check[M]) Check[M] {
	return OnlyVisibility(symbols.Protected, inner)
}

// Documented is anything carrying an @internal marker.
type Documented interface {
	Internal() bool
}

// UnlessInternal skips inner when the old declaration was already internal.
func UnlessInternal[T Documented](inner Check[T]) Check[T] {
	return Unless(func(from, _ T) bool { return from.Internal() }, inner)
}

// Pair is a matched old and new declaration.
type Pair[M any] struct {
	From, To M
}

type each[O, M any] struct {
	pairs func(scopes Scopes, from, to O) []Pair[M]
	name  func(M) string
	inner Check[M]
}

// Each delegates inner to every matched member pair produced by pairs and
// merges the results. name identifies a member; a pair whose names differ
// is a precondition violation.
func Each[O, M any](pairs func(scopes Scopes, from, to O) []Pair[M], name func(M) string, inner Check[M]) Check[O] {
	return each[O, M]{pairs: pairs, name: name, inner: inner}
}

func (e each[O, M]) Check(scopes Scopes, from, to O) (changespec.Changes, error) {
	result := changespec.Empty()
	for _, p := range e.pairs(scopes, from, to) {
		if fromName, toName := e.name(p.From), e.name(p.To); !strings.EqualFold(fromName, toName) {
			return changespec.Empty(), fmt.Errorf("%w: comparing %q with %q", ErrPrecondition, fromName, toName)
		}
		changes, err := e.inner.Check(scopes, p.From, p.To)
		if err != nil {
			return changespec.Empty(), err
		}
		result = result.Merge(changes)
	}
	return result, nil
}
