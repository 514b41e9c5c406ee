package bcbreak

import (
	"fmt"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
)

func ConstantVisibilityReduced() ConstantCheck {
	return constantFunc(func(_ check.Scopes, from, to *symbols.Constant) (changespec.Changes, error) {
		if !from.Visibility.ReducedTo(to.Visibility) {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Constant %s visibility reduced from %s to %s",
			from.DisplayName(), from.Visibility, to.Visibility), true))
	})
}

func ConstantValueChanged() ConstantCheck {
	return constantFunc(func(_ check.Scopes, from, to *symbols.Constant) (changespec.Changes, error) {
		before, after := normalizeValue(from.Value), normalizeValue(to.Value)
		if before == after {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Value of constant %s changed from %s to %s",
			from.DisplayName(), before, after), true))
	})
}

func ExcludeInternalConstant(inner ConstantCheck) ConstantCheck {
	return check.UnlessInternal(inner)
}
