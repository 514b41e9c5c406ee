package bcbreak

import (
	"fmt"
	"strings"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
)

// ClassBecameAbstract reports a concrete class that can no longer be instantiated.
func ClassBecameAbstract() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if from.IsInterface() != to.IsInterface() || from.Abstract || !to.Abstract {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Class %s became abstract", from.Name), true))
	})
}

func ClassBecameInterface() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if from.Kind != symbols.KindClass || !to.IsInterface() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Class %s became an interface", from.Name), true))
	})
}

func ClassBecameTrait() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if from.Kind != symbols.KindClass || !to.IsTrait() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Class %s became a trait", from.Name), true))
	})
}

func ClassBecameFinal() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if from.Final || !to.Final {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("Class %s became final", from.Name), true))
	})
}

func ClassBecameInternal() ClassCheck {
	return classFunc(func(_ check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		if from.Internal() || !to.Internal() {
			return none()
		}
		return one(changespec.Changed(fmt.Sprintf("%s was marked \"@internal\"", from.Name), true))
	})
}

// ConstantRemoved reports public and protected constants, declared or
// inherited, that are gone.
func ConstantRemoved() ClassCheck {
	return classFunc(func(scopes check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		remaining := map[string]struct{}{}
		for _, k := range scopes.To.ConstantsOf(to) {
			if accessible(k) {
				remaining[k.Name] = struct{}{}
			}
		}

		result := changespec.Empty()
		for _, k := range scopes.From.ConstantsOf(from) {
			if _, ok := remaining[k.Name]; ok || !accessible(k) {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Removed(
				fmt.Sprintf("Constant %s::%s was removed", from.Name, k.Name), true)))
		}
		return result, nil
	})
}

// PropertyRemoved reports public and protected properties that are gone or
// no longer accessible.
func PropertyRemoved() ClassCheck {
	return classFunc(func(scopes check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		remaining := map[string]struct{}{}
		for _, p := range scopes.To.PropertiesOf(to) {
			if accessible(p) {
				remaining[p.Name] = struct{}{}
			}
		}

		result := changespec.Empty()
		for _, p := range scopes.From.PropertiesOf(from) {
			if _, ok := remaining[p.Name]; ok || !accessible(p) {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Removed(
				fmt.Sprintf("Property %s was removed", p.DisplayName()), true)))
		}
		return result, nil
	})
}

// MethodRemoved reports public and protected methods that are gone.
func MethodRemoved() ClassCheck {
	return classFunc(func(scopes check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		remaining := map[string]struct{}{}
		for _, m := range scopes.To.MethodsOf(to) {
			if accessible(m) {
				remaining[strings.ToLower(m.Name)] = struct{}{}
			}
		}

		result := changespec.Empty()
		for _, m := range scopes.From.MethodsOf(from) {
			if _, ok := remaining[strings.ToLower(m.Name)]; ok || !accessible(m) {
				continue
			}
			result = result.Merge(changespec.FromList(changespec.Removed(
				fmt.Sprintf("Method %s was removed", m.DisplayName()), true)))
		}
		return result, nil
	})
}

// AncestorRemoved reports parents and interfaces that the class no longer
// extends or implements.
func AncestorRemoved() ClassCheck {
	return classFunc(func(scopes check.Scopes, from, to *symbols.Class) (changespec.Changes, error) {
		remaining := map[string]struct{}{}
		for _, a := range scopes.To.DeclaredAncestors(to) {
			remaining[strings.ToLower(a)] = struct{}{}
		}

		var removed []string
		for _, a := range scopes.From.DeclaredAncestors(from) {
			if _, ok := remaining[strings.ToLower(a)]; !ok {
				removed = append(removed, a)
			}
		}
		if len(removed) == 0 {
			return none()
		}
		return one(changespec.Removed(fmt.Sprintf("These ancestors of %s have been removed: [%s]",
			from.Name, strings.Join(removed, ", ")), true))
	})
}

// OpenClassChanged runs inner for classes that were not final.
func OpenClassChanged(inner ClassCheck) ClassCheck {
	return check.Unless(func(from, _ *symbols.Class) bool { return from.Final }, inner)
}

// FinalClassChanged runs inner for classes that were final.
func FinalClassChanged(inner ClassCheck) ClassCheck {
	return check.When(func(from, _ *symbols.Class) bool { return from.Final }, inner)
}

func ExcludeAnonymousClasses(inner ClassCheck) ClassCheck {
	return check.Unless(func(from, _ *symbols.Class) bool { return from.Anonymous }, inner)
}

func ExcludeInternalClass(inner ClassCheck) ClassCheck {
	return check.UnlessInternal(inner)
}
