package bcbreak

import (
	"fmt"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
)

func TraitBecameInterface() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if !from.IsTrait() || !to.IsInterface() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Trait %s became an interface", from.Name), true))
	})
}

func TraitBecameClass() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if !from.IsTrait() || to.IsTrait() || to.IsInterface() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Trait %s became a class", from.Name), true))
	})
}

// UseClassBasedChecksOnATrait applies class rules to trait pairs.
func UseClassBasedChecksOnATrait(inner ClassCheck) ClassCheck {
	return check.When(func(from, _ *symbols.Class) bool { return from.IsTrait() }, inner)
}

func ExcludeInternalTrait(inner ClassCheck) ClassCheck {
	return check.UnlessInternal(inner)
}
