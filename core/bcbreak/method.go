package bcbreak

import (
	"fmt"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
)

func MethodBecameFinal() MethodCheck {
	return methodFunc(func(_ check.Scopes, from, to *symbols.Method) (changespec.Changes, error) {
		if from.Final || !to.Final {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Method %s() of class %s became final", from.Name, from.Owner), true))
	})
}

func MethodConcretenessChanged() MethodCheck {
	return methodFunc(func(_ check.Scopes, from, to *symbols.Method) (changespec.Changes, error) {
		if from.Abstract || !to.Abstract {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Method %s() of class %s changed from concrete to abstract",
			from.Name, from.Owner), true))
	})
}

func MethodScopeChanged() MethodCheck {
	return methodFunc(func(_ check.Scopes, from, to *symbols.Method) (changespec.Changes, error) {
		if from.Static == to.Static {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Method %s() of class %s changed scope from %s to %s",
			from.Name, from.Owner, scopeName(from.Static), scopeName(to.Static)), true))
	})
}

func MethodVisibilityReduced() MethodCheck {
	return methodFunc(func(_ check.Scopes, from, to *symbols.Method) (changespec.Changes, error) {
		if !from.Visibility.ReducedTo(to.Visibility) {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Method %s() of class %s visibility reduced from %s to %s",
			from.Name, from.Owner, from.Visibility, to.Visibility), true))
	})
}

// MethodFunctionDefinitionChanged runs function rules on the signatures of a method pair.
func MethodFunctionDefinitionChanged(inner FunctionCheck) MethodCheck {
	return methodFunc(func(scopes check.Scopes, from, to *symbols.Method) (changespec.Changes, error) {
		return inner.Check(scopes, &from.Function, &to.Function)
	})
}

func ExcludeInternalMethod(inner MethodCheck) MethodCheck {
	return check.UnlessInternal(inner)
}
