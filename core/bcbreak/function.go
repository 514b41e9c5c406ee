package bcbreak

import (
	"fmt"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
	"github.com/emenda-labs/bccheck/core/variance"
)

// sharedParameters pairs parameters by position, ignoring positions only one side has.
func sharedParameters(from, to *symbols.Function) []check.Pair[*symbols.Parameter] {
	n := min(len(from.Parameters), len(to.Parameters))
	pairs := make([]check.Pair[*symbols.Parameter], 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, check.Pair[*symbols.Parameter]{From: from.Parameters[i], To: to.Parameters[i]})
	}
	return pairs
}

func returnOperand(scope *symbols.Snapshot, f *symbols.Function) variance.Operand {
	return variance.Operand{Type: f.ReturnType, Scope: scope, Self: f.Owner}
}

func parameterOperand(scope *symbols.Snapshot, f *symbols.Function, p *symbols.Parameter) variance.Operand {
	return variance.Operand{Type: p.Type, Scope: scope, Self: f.Owner}
}

func FunctionBecameInternal() FunctionCheck {
	return functionFunc(func(_ check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		if from.Internal() || !to.Internal() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("%s was marked \"@internal\"", from.DisplayName()), true))
	})
}

func ParameterByReferenceChanged() FunctionCheck {
	return functionFunc(func(_ check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		result := changespec.Empty()
		for _, p := range sharedParameters(from, to) {
			if p.From.ByReference == p.To.ByReference {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Changed(fmt.Sprintf(
				"The parameter $%s of %s changed from %s to %s",
				p.From.Name, from.DisplayName(), referenceName(p.From.ByReference), referenceName(p.To.ByReference)), true)))
		}
		return result, nil
	})
}

func ReturnTypeByReferenceChanged() FunctionCheck {
	return functionFunc(func(_ check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		if from.ReturnsReference == to.ReturnsReference {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("The return value of %s changed from %s to %s",
			from.DisplayName(), referenceName(from.ReturnsReference), referenceName(to.ReturnsReference)), true))
	})
}

func RequiredParameterAmountIncreased() FunctionCheck {
	return functionFunc(func(_ check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		before, after := from.RequiredParameterCount(), to.RequiredParameterCount()
		if after <= before {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("The number of required arguments for %s increased from %d to %d",
			from.DisplayName(), before, after), true))
	})
}

func ParameterDefaultValueChanged() FunctionCheck {
	return functionFunc(func(_ check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		result := changespec.Empty()
		for _, p := range sharedParameters(from, to) {
			if !p.From.HasDefault || !p.To.HasDefault {
				continue
			}
			before, after := normalizeValue(p.From.Default), normalizeValue(p.To.Default)
			if before == after {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Changed(fmt.Sprintf(
				"Default parameter value for parameter $%s of %s changed from %s to %s",
				p.From.Name, from.DisplayName(), before, after), true)))
		}
		return result, nil
	})
}

func ReturnTypeCovarianceChanged() FunctionCheck {
	return functionFunc(func(scopes check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		ok, err := variance.IsCovariant(returnOperand(scopes.From, from), returnOperand(scopes.To, to))
		if err != nil {
			return changespec.Empty(), err
		}
		if ok {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("The return type of %s changed from %s to the non-covariant %s",
			from.DisplayName(), typeOrNone(from.ReturnType, "no type"), typeOrNone(to.ReturnType, "no type")), true))
	})
}

// ReturnTypeChanged records any change to the declared return type. It is
// informational; ReturnTypeCovarianceChanged decides about breaks.
func ReturnTypeChanged() FunctionCheck {
	return functionFunc(func(_ check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		if from.ReturnType == to.ReturnType {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("The return type of %s changed from %s to %s",
			from.DisplayName(), typeOrNone(from.ReturnType, "no type"), typeOrNone(to.ReturnType, "no type")), false))
	})
}

func ParameterTypeContravarianceChanged() FunctionCheck {
	return functionFunc(func(scopes check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		result := changespec.Empty()
		for _, p := range sharedParameters(from, to) {
			ok, err := variance.IsContravariant(
				parameterOperand(scopes.From, from, p.From),
				parameterOperand(scopes.To, to, p.To),
			)
			if err != nil {
				return changespec.Empty(), err
			}
			if ok {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Changed(fmt.Sprintf(
				"The parameter $%s of %s changed from %s to a non-contravariant %s",
				p.From.Name, from.DisplayName(), typeOrNone(p.From.Type, "no type"), typeOrNone(p.To.Type, "no type")), true)))
		}
		return result, nil
	})
}

// ParameterTypeChanged records any change to declared parameter types. It is informational.
func ParameterTypeChanged() FunctionCheck {
	return functionFunc(func(_ check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		result := changespec.Empty()
		for _, p := range sharedParameters(from, to) {
			if p.From.Type == p.To.Type {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Changed(fmt.Sprintf(
				"The parameter $%s of %s changed from %s to %s",
				p.From.Name, from.DisplayName(), typeOrNone(p.From.Type, "no type"), typeOrNone(p.To.Type, "no type")), false)))
		}
		return result, nil
	})
}

// ParameterNameChanged reports renamed parameters, which break callers using
// named arguments unless the function opts out with @no-named-arguments.
// Adding or removing that annotation is reported on its own.
func ParameterNameChanged() FunctionCheck {
	return functionFunc(func(_ check.Scopes, from, to *symbols.Function) (changespec.Changes, error) {
		before, after := from.NoNamedArguments(), to.NoNamedArguments()
		switch {
		case before && !after:
			return one(changespec.Removed(fmt.Sprintf("The @no-named-arguments annotation was removed from %s",
				from.DisplayName()), true))
		case !before && after:
			return one(changespec.Added(fmt.Sprintf("The @no-named-arguments annotation was added from %s",
				from.DisplayName()), true))
		case before && after:
			return none()
		}

		result := changespec.Empty()
		for i, p := range sharedParameters(from, to) {
			if p.From.Name == p.To.Name {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Changed(fmt.Sprintf(
				"Parameter %d of %s changed name from %s to %s",
				i, from.DisplayName(), p.From.Name, p.To.Name), true)))
		}
		return result, nil
	})
}

func ExcludeInternalFunction(inner FunctionCheck) FunctionCheck {
	return check.UnlessInternal(inner)
}
