// Package variance decides whether replacing one declared type with another
// is safe for callers (contravariance, parameter types) or for consumers of
// a result (covariance, return types).
package variance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emenda-labs/bccheck/core/symbols"
)

// ErrUnresolvableType is returned when a relative type such as "parent"
// cannot be resolved from its declaring context.
var ErrUnresolvableType = errors.New("unresolvable type")

// Operand is a declared type together with the context it is resolved in.
// Self is the declaring class, used for self, static and parent.
type Operand struct {
	Type  symbols.Type
	Scope *symbols.Snapshot
	Self  string
}

// IsCovariant reports whether to may replace from as a return type:
// every value of to must also be a value of from.
func IsCovariant(from, to Operand) (bool, error) {
	if !from.Type.Declared() {
		return true, nil
	}
	if !to.Type.Declared() {
		return false, nil
	}
	return isSubtype(to, from)
}

// IsContravariant reports whether to may replace from as a parameter type:
// every value accepted by from must still be accepted by to.
func IsContravariant(from, to Operand) (bool, error) {
	if !to.Type.Declared() {
		return true, nil
	}
	if !from.Type.Declared() {
		return to.Type.Has("mixed"), nil
	}
	return isSubtype(from, to)
}

// isSubtype checks that every union member of sub fits some member of super.
func isSubtype(sub, super Operand) (bool, error) {
	superMembers := super.Type.Members()
	for _, s := range sub.Type.Members() {
		fits := false
		for _, t := range superMembers {
			ok, err := atomIsSubtype(s, sub, t, super)
			if err != nil {
				return false, err
			}
			if ok {
				fits = true
				break
			}
		}
		if !fits {
			return false, nil
		}
	}
	return true, nil
}

func atomIsSubtype(a string, subCtx Operand, b string, superCtx Operand) (bool, error) {
	if strings.Contains(b, "&") {
		for _, part := range strings.Split(b, "&") {
			ok, err := atomIsSubtype(a, subCtx, part, superCtx)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	if strings.Contains(a, "&") {
		for _, part := range strings.Split(a, "&") {
			ok, err := atomIsSubtype(part, subCtx, b, superCtx)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	a, err := resolveRelative(a, subCtx)
	if err != nil {
		return false, err
	}
	b, err = resolveRelative(b, superCtx)
	if err != nil {
		return false, err
	}

	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return true, nil
	}

	switch {
	case la == "never":
		return true, nil
	case lb == "mixed":
		return la != "void", nil
	case la == "void" || lb == "void":
		return false, nil
	case lb == "bool":
		return la == "true" || la == "false", nil
	}

	aIsClass := !symbols.IsBuiltinType(a)
	bIsClass := !symbols.IsBuiltinType(b)

	switch lb {
	case "object":
		return aIsClass, nil
	case "iterable":
		if la == "array" {
			return true, nil
		}
		if !aIsClass {
			return false, nil
		}
		return subclassOf(subCtx, a, "Traversable")
	case "callable":
		return la == "closure", nil
	}

	if !aIsClass || !bIsClass {
		return false, nil
	}
	return subclassOf(subCtx, a, b)
}

func subclassOf(ctx Operand, name, ancestor string) (bool, error) {
	if ctx.Scope == nil {
		return false, fmt.Errorf("%w: no scope to resolve %s", ErrUnresolvableType, name)
	}
	return ctx.Scope.IsSubclassOf(name, ancestor)
}

// resolveRelative replaces self, static and parent with class names.
func resolveRelative(name string, ctx Operand) (string, error) {
	switch strings.ToLower(name) {
	case "self", "static":
		if ctx.Self == "" {
			return "", fmt.Errorf("%w: %s outside of a class", ErrUnresolvableType, name)
		}
		return ctx.Self, nil
	case "parent":
		if ctx.Self == "" {
			return "", fmt.Errorf("%w: parent outside of a class", ErrUnresolvableType)
		}
		c, ok := ctx.Scope.Class(ctx.Self)
		if !ok {
			return "", fmt.Errorf("%w: %s", symbols.ErrUnknownClass, ctx.Self)
		}
		if c.Parent == "" {
			return "", fmt.Errorf("%w: %s has no parent", ErrUnresolvableType, ctx.Self)
		}
		return c.Parent, nil
	}
	return name, nil
}
