package bcbreak

import (
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
)

// Trees holds one check tree per symbol kind plus the kind transition tree.
type Trees struct {
	Transitions ClassCheck
	Class       ClassCheck
	Interface   ClassCheck
	Trait       ClassCheck
	Function    FunctionCheck
}

// guarded isolates each check and runs them all.
func guarded[T any](checks ...check.Check[T]) check.Check[T] {
	wrapped := make([]check.Check[T], len(checks))
	for i, c := range checks {
		wrapped[i] = check.Catching(c)
	}
	return check.AllOf(wrapped...)
}

// functionChecks returns the signature rules. The informational rules and
// parameter renames are left out when overriding is impossible.
func functionChecks(extendable bool) FunctionCheck {
	checks := []FunctionCheck{
		FunctionBecameInternal(),
		ParameterByReferenceChanged(),
		ReturnTypeByReferenceChanged(),
		RequiredParameterAmountIncreased(),
		ParameterDefaultValueChanged(),
		ReturnTypeCovarianceChanged(),
	}
	if extendable {
		checks = append(checks, ReturnTypeChanged())
	}
	checks = append(checks, ParameterTypeContravarianceChanged())
	if extendable {
		checks = append(checks, ParameterTypeChanged(), ParameterNameChanged())
	}
	return guarded(checks...)
}

func constantChecks() ConstantCheck {
	return guarded(ConstantVisibilityReduced(), ConstantValueChanged())
}

func propertyChecks() PropertyCheck {
	return guarded(
		PropertyBecameInternal(),
		PropertyTypeChanged(),
		PropertyDocumentedTypeChanged(),
		PropertyDefaultValueChanged(),
		PropertyVisibilityReduced(),
		PropertyScopeChanged(),
		PropertyBecameReadOnly(),
	)
}

func methodChecks(extendable bool) MethodCheck {
	return guarded(
		MethodBecameFinal(),
		MethodConcretenessChanged(),
		MethodScopeChanged(),
		MethodVisibilityReduced(),
		MethodFunctionDefinitionChanged(functionChecks(extendable)),
	)
}

// openMemberChecks covers public and protected members, since subclasses
// see both.
func openMemberChecks() ClassCheck {
	return guarded(
		ConstantChanged(ExcludeInternalConstant(check.AllOf(
			check.OnlyPublic(constantChecks()),
			check.OnlyProtected(constantChecks()),
		))),
		PropertyChanged(ExcludeInternalProperty(check.AllOf(
			check.OnlyPublic(propertyChecks()),
			check.OnlyProtected(propertyChecks()),
		))),
		MethodChanged(ExcludeInternalMethod(check.AllOf(
			check.OnlyPublic(methodChecks(true)),
			check.OnlyProtected(methodChecks(true)),
		))),
	)
}

// finalMemberChecks covers public members only.
func finalMemberChecks() ClassCheck {
	return guarded(
		ConstantChanged(ExcludeInternalConstant(check.OnlyPublic(constantChecks()))),
		PropertyChanged(ExcludeInternalProperty(check.OnlyPublic(propertyChecks()))),
		MethodChanged(ExcludeInternalMethod(check.OnlyPublic(methodChecks(false)))),
	)
}

// TransitionChecks reports a symbol changing between class, interface and trait.
func TransitionChecks() ClassCheck {
	return guarded(
		ClassBecameInterface(),
		ClassBecameTrait(),
		InterfaceBecameClass(),
		InterfaceBecameTrait(),
		TraitBecameInterface(),
		TraitBecameClass(),
	)
}

func ClassChecks() ClassCheck {
	return ExcludeAnonymousClasses(ExcludeInternalClass(guarded(
		ClassBecameAbstract(),
		ClassBecameFinal(),
		ConstantRemoved(),
		PropertyRemoved(),
		MethodRemoved(),
		AncestorRemoved(),
		ClassBecameInternal(),
		OpenClassChanged(openMemberChecks()),
		FinalClassChanged(finalMemberChecks()),
	)))
}

func InterfaceChecks() ClassCheck {
	return ExcludeInternalInterface(guarded(
		AncestorRemoved(),
		MethodAdded(),
		UseClassBasedChecksOnAnInterface(guarded(
			ClassBecameInternal(),
			ConstantRemoved(),
			MethodRemoved(),
			ConstantChanged(guarded(ConstantValueChanged())),
			MethodChanged(guarded(
				MethodScopeChanged(),
				MethodFunctionDefinitionChanged(functionChecks(true)),
			)),
		)),
	))
}

func TraitChecks() ClassCheck {
	return ExcludeInternalTrait(UseClassBasedChecksOnATrait(guarded(
		ClassBecameInternal(),
		ConstantRemoved(),
		PropertyRemoved(),
		MethodRemoved(),
		PropertyChanged(ExcludeInternalProperty(check.AllOf(
			check.OnlyPublic(propertyChecks()),
			check.OnlyProtected(propertyChecks()),
		))),
		MethodChanged(ExcludeInternalMethod(check.AllOf(
			check.OnlyPublic(methodChecks(true)),
			check.OnlyProtected(methodChecks(true)),
		))),
	)))
}

func FunctionChecks() FunctionCheck {
	return ExcludeInternalFunction(functionChecks(true))
}

// DefaultTrees returns the rule set applied when comparing two snapshots.
func DefaultTrees() Trees {
	return Trees{
		Transitions: TransitionChecks(),
		Class:       ClassChecks(),
		Interface:   InterfaceChecks(),
		Trait:       TraitChecks(),
		Function:    FunctionChecks(),
	}
}

// ForKind returns the tree applied to symbols of kind k.
func (t Trees) ForKind(k symbols.Kind) ClassCheck {
	switch k {
	case symbols.KindInterface:
		return t.Interface
	case symbols.KindTrait:
		return t.Trait
	default:
		return t.Class
	}
}
