package variance

import (
	"errors"
	"testing"

	"github.com/emenda-labs/bccheck/core/symbols"
)

func hierarchy() *symbols.Snapshot {
	return symbols.NewSnapshot([]*symbols.Class{
		{Name: "A", Kind: symbols.KindClass},
		{Name: "B", Kind: symbols.KindClass, Parent: "A"},
		{Name: "C", Kind: symbols.KindClass, Parent: "B", Interfaces: []string{"IteratorAggregate"}},
		{Name: "I", Kind: symbols.KindInterface},
		{Name: "D", Kind: symbols.KindClass, Interfaces: []string{"I"}},
		{Name: "Orphan", Kind: symbols.KindClass, Parent: "Missing"},
		{Name: "Partial", Kind: symbols.KindClass, Parent: "B", Interfaces: []string{`Ext\Missing`}},
	}, nil, nil)
}

func op(s *symbols.Snapshot, t symbols.Type) Operand {
	return Operand{Type: t, Scope: s, Self: "B"}
}

func TestIsCovariant(t *testing.T) {
	s := hierarchy()

	tests := []struct {
		name     string
		from, to symbols.Type
		want     bool
	}{
		{"identical", "int", "int", true},
		{"subclass return", "A", "B", true},
		{"superclass return", "B", "A", false},
		{"no type to type", "", "int", true},
		{"type to no type", "int", "", false},
		{"neither typed", "", "", true},
		{"drop null", "?int", "int", true},
		{"add null", "int", "?int", false},
		{"narrow union", "int|string", "int", true},
		{"widen union", "int", "int|string", false},
		{"array to iterable", "array", "iterable", false},
		{"iterable to array", "iterable", "array", true},
		{"iterable to traversable class", "iterable", "C", true},
		{"object to class", "object", "A", true},
		{"mixed to anything", "mixed", "string", true},
		{"mixed to void", "mixed", "void", false},
		{"void to int", "void", "int", false},
		{"bool to false", "bool", "false", true},
		{"class to never", "A", "never", true},
		{"interface implementor", "I", "D", true},
		{"unrelated classes", "A", "D", false},
		{"self to subclass", "self", "C", true},
		{"case insensitive builtin and class", "a", "B", true},
		{"intersection narrows", "A", "(B&I)|null", false},
		{"intersection member", "A|null", "(B&I)|null", true},
		{"subclass with unresolvable interface", "A", "Partial", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsCovariant(op(s, tt.from), op(s, tt.to))
			if err != nil {
				t.Fatalf("IsCovariant: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsCovariant(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsContravariant(t *testing.T) {
	s := hierarchy()

	tests := []struct {
		name     string
		from, to symbols.Type
		want     bool
	}{
		{"identical", "string", "string", true},
		{"accept supertype", "B", "A", true},
		{"accept subtype", "A", "B", false},
		{"type removed", "int", "", true},
		{"type added", "", "int", false},
		{"mixed added", "", "mixed", true},
		{"make nullable", "int", "?int", true},
		{"drop nullable", "?int", "int", false},
		{"widen union", "int", "int|string", true},
		{"narrow union", "int|string", "int", false},
		{"array to iterable", "array", "iterable", true},
		{"class to object", "C", "object", true},
		{"class to interface it implements", "D", "I", true},
		{"parent resolves", "B", "parent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsContravariant(op(s, tt.from), op(s, tt.to))
			if err != nil {
				t.Fatalf("IsContravariant: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsContravariant(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestScopesAreResolvedPerSide(t *testing.T) {
	from := symbols.NewSnapshot([]*symbols.Class{
		{Name: "A", Kind: symbols.KindClass},
		{Name: "B", Kind: symbols.KindClass},
	}, nil, nil)
	to := symbols.NewSnapshot([]*symbols.Class{
		{Name: "A", Kind: symbols.KindClass},
		{Name: "B", Kind: symbols.KindClass, Parent: "A"},
	}, nil, nil)

	// B only extends A in the new version, so returning B instead of A is
	// safe when B is resolved in the new scope.
	got, err := IsCovariant(Operand{Type: "A", Scope: from}, Operand{Type: "B", Scope: to})
	if err != nil {
		t.Fatalf("IsCovariant: %v", err)
	}
	if !got {
		t.Error("expected B to be covariant with A in the new scope")
	}

	// Accepting B where A was accepted: A must be a subtype of B in the old scope.
	got, err = IsContravariant(Operand{Type: "B", Scope: from}, Operand{Type: "A", Scope: to})
	if err != nil {
		t.Fatalf("IsContravariant: %v", err)
	}
	if got {
		t.Error("A does not extend B, widening must not be reported safe")
	}
}

func TestUnresolvableTypes(t *testing.T) {
	s := hierarchy()

	if _, err := IsCovariant(op(s, "A"), op(s, "Orphan")); !errors.Is(err, symbols.ErrUnknownClass) {
		t.Errorf("err = %v, want ErrUnknownClass", err)
	}

	if _, err := IsCovariant(op(s, "I"), op(s, "Partial")); !errors.Is(err, symbols.ErrUnknownClass) {
		t.Errorf("err = %v, want ErrUnknownClass when no resolvable ancestor matches", err)
	}

	noSelf := Operand{Type: "self", Scope: s}
	if _, err := IsCovariant(op(s, "A"), noSelf); !errors.Is(err, ErrUnresolvableType) {
		t.Errorf("err = %v, want ErrUnresolvableType", err)
	}

	parentless := Operand{Type: "parent", Scope: s, Self: "A"}
	if _, err := IsContravariant(op(s, "A"), parentless); !errors.Is(err, ErrUnresolvableType) {
		t.Errorf("err = %v, want ErrUnresolvableType", err)
	}
}
