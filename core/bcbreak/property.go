package bcbreak

import (
	"fmt"
	"slices"
	"strings"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
	"github.com/emenda-labs/bccheck/core/variance"
)

func PropertyBecameInternal() PropertyCheck {
	return propertyFunc(func(_ check.Scopes, from, to *symbols.Property) (changespec.Changes, error) {
		if from.Internal() || !to.Internal() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Property %s was marked \"@internal\"", from.DisplayName()), true))
	})
}

// PropertyTypeChanged reports a declared property type that is no longer
// both readable and writable with the old type.
func PropertyTypeChanged() PropertyCheck {
	return propertyFunc(func(scopes check.Scopes, from, to *symbols.Property) (changespec.Changes, error) {
		if from.Type == to.Type {
			return none()
		}
		fromOp := variance.Operand{Type: from.Type, Scope: scopes.From, Self: from.Owner}
		toOp := variance.Operand{Type: to.Type, Scope: scopes.To, Self: to.Owner}

		covariant, err := variance.IsCovariant(fromOp, toOp)
		if err != nil {
			return changespec.Empty(), err
		}
		contravariant, err := variance.IsContravariant(fromOp, toOp)
		if err != nil {
			return changespec.Empty(), err
		}
		if covariant && contravariant {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Type of property %s changed from %s to %s",
			from.DisplayName(), typeOrNone(from.Type, "having no type"), typeOrNone(to.Type, "having no type")), true))
	})
}

// PropertyDocumentedTypeChanged compares @var annotations of untyped properties.
func PropertyDocumentedTypeChanged() PropertyCheck {
	return propertyFunc(func(_ check.Scopes, from, to *symbols.Property) (changespec.Changes, error) {
		if from.Type.Declared() {
			return none()
		}
		before := symbols.DocumentedTypes(from.DocComment)
		if len(before) == 0 {
			return none()
		}
		after := symbols.DocumentedTypes(to.DocComment)
		if slices.Equal(before, after) {
			return none()
		}
		rendered := "having no type"
		if len(after) > 0 {
			rendered = strings.Join(after, "|")
		}
		return one(changespec.Changed(fmt.Sprintf("Type documentation for property %s changed from %s to %s",
			from.DisplayName(), strings.Join(before, "|"), rendered), true))
	})
}

func PropertyDefaultValueChanged() PropertyCheck {
	return propertyFunc(func(_ check.Scopes, from, to *symbols.Property) (changespec.Changes, error) {
		before, after := renderDefault(from.HasDefault, from.Default), renderDefault(to.HasDefault, to.Default)
		if before == after {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Property %s changed default value from %s to %s",
			from.DisplayName(), before, after), true))
	})
}

func PropertyVisibilityReduced() PropertyCheck {
	return propertyFunc(func(_ check.Scopes, from, to *symbols.Property) (changespec.Changes, error) {
		if !from.Visibility.ReducedTo(to.Visibility) {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Property %s visibility reduced from %s to %s",
			from.DisplayName(), from.Visibility, to.Visibility), true))
	})
}

func PropertyScopeChanged() PropertyCheck {
	return propertyFunc(func(_ check.Scopes, from, to *symbols.Property) (changespec.Changes, error) {
		if from.Static == to.Static {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Property %s changed scope from %s to %s",
			from.DisplayName(), scopeName(from.Static), scopeName(to.Static)), true))
	})
}

// PropertyBecameReadOnly reports properties callers can no longer assign.
func PropertyBecameReadOnly() PropertyCheck {
	return propertyFunc(func(_ check.Scopes, from, to *symbols.Property) (changespec.Changes, error) {
		if from.Readonly || !to.Readonly {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Property %s became read-only", from.DisplayName()), true))
	})
}

func ExcludeInternalProperty(inner PropertyCheck) PropertyCheck {
	return check.UnlessInternal(inner)
}
