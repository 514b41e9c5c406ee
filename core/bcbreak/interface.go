package bcbreak

import (
	"fmt"
	"strings"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
)

func InterfaceBecameClass() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if !from.IsInterface() || to.IsInterface() || to.IsTrait() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Interface %s became a class", from.Name), true))
	})
}

func InterfaceBecameTrait() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if !from.IsInterface() || !to.IsTrait() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Interface %s became a trait", from.Name), true))
	})
}

// MethodAdded reports methods every implementor of an interface must now provide.
func MethodAdded() ClassCheck {
	return classFunc(func(scopes check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if !to.IsInterface() {
			return none()
		}
		existing := map[string]struct{}{}
		for _, m := range scopes.From.MethodsOf(from) {
			existing[strings.ToLower(m.Name)] = struct{}{}
		}

		result := changespec.Empty()
		for _, m := range scopes.To.MethodsOf(to) {
			if _, ok := existing[strings.ToLower(m.Name)]; ok {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Added(
				fmt.Sprintf("Method %s() was added to interface %s", m.Name, to.Name), true)))
		}
		return result, nil
	})
}

// UseClassBasedChecksOnAnInterface applies class rules to interface pairs.
func UseClassBasedChecksOnAnInterface(inner ClassCheck) ClassCheck {
	return check.When(func(from, _ *symbols.Class) bool { return from.IsInterface() }, inner)
}

func ExcludeInternalInterface(inner ClassCheck) ClassCheck {
	return check.UnlessInternal(inner)
}
