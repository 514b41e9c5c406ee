package bcbreak

import (
	"strings"

	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
)

// pairMembers matches members present on both sides by key, in old order.
func pairMembers[M any](from, to []M, key func(M) string) []check.Pair[M] {
	byKey := make(map[string]M, len(to))
	for _, m := range to {
		byKey[key(m)] = m
	}
	var pairs []check.Pair[M]
	for _, m := range from {
		if next, ok := byKey[key(m)]; ok {
			pairs = append(pairs, check.Pair[M]{From: m, To: next})
		}
	}
	return pairs
}

func constantName(k *symbols.Constant) string { return k.Name }
func propertyName(p *symbols.Property) string { return p.Name }
func methodName(m *symbols.Method) string     { return m.Name }
func methodKey(m *symbols.Method) string      { return strings.ToLower(m.Name) }

// ConstantChanged runs inner on every constant present in both versions.
func ConstantChanged(inner ConstantCheck) ClassCheck {
	return memberChanged(func(s *symbols.Snapshot, c *symbols.Class) []*symbols.Constant {
		return s.ConstantsOf(c)
	}, constantName, constantName, inner)
}

// PropertyChanged runs inner on every property present in both versions.
func PropertyChanged(inner PropertyCheck) ClassCheck {
	return memberChanged(func(s *symbols.Snapshot, c *symbols.Class) []*symbols.Property {
		return s.PropertiesOf(c)
	}, propertyName, propertyName, inner)
}

// MethodChanged runs inner on every method present in both versions.
func MethodChanged(inner MethodCheck) ClassCheck {
	return memberChanged(func(s *symbols.Snapshot, c *symbols.Class) []*symbols.Method {
		return s.MethodsOf(c)
	}, methodKey, methodName, inner)
}

func memberChanged[M any](
	members func(*symbols.Snapshot, *symbols.Class) []M,
	key, name func(M) string,
	inner check.Check[M],
) ClassCheck {
	return check.Each(func(scopes check.Scopes, from, to *symbols.Class) []check.Pair[M] {
		return pairMembers(members(scopes.From, from), members(scopes.To, to), key)
	}, name, inner)
}
