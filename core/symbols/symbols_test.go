package symbols

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeType(t *testing.T) {
	resolve := func(name string) string {
		if name == "Foo" {
			return `App\Foo`
		}
		return name
	}

	tests := []struct {
		raw  string
		want Type
	}{
		{"", ""},
		{"int", "int"},
		{"INT", "int"},
		{"?Foo", `?App\Foo`},
		{"Foo | null", `App\Foo|null`},
		{"Foo&Countable", `App\Foo&Countable`},
		{"(Foo&Countable)|null", `(App\Foo&Countable)|null`},
		{"self", "self"},
	}

	for _, tt := range tests {
		if got := NormalizeType(tt.raw, resolve); got != tt.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeTypeWithoutResolver(t *testing.T) {
	if got := NormalizeType(`\Vendor\Thing`, nil); got != `Vendor\Thing` {
		t.Errorf("got %q, want %q", got, `Vendor\Thing`)
	}
}

func TestTypeMembers(t *testing.T) {
	tests := []struct {
		typ  Type
		want []string
	}{
		{"", nil},
		{"int", []string{"int"}},
		{"?int", []string{"int", "null"}},
		{"int|string", []string{"int", "string"}},
		{"(A&B)|null", []string{"A&B", "null"}},
	}

	for _, tt := range tests {
		if got := tt.typ.Members(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Members(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestTypeAllowsNull(t *testing.T) {
	if !Type("?int").AllowsNull() {
		t.Error("?int should allow null")
	}
	if !Type("mixed").AllowsNull() {
		t.Error("mixed should allow null")
	}
	if Type("int|string").AllowsNull() {
		t.Error("int|string should not allow null")
	}
}

func TestVisibilityReducedTo(t *testing.T) {
	tests := []struct {
		from, to Visibility
		want     bool
	}{
		{Public, Protected, true},
		{Public, Private, true},
		{Protected, Private, true},
		{Protected, Public, false},
		{Private, Public, false},
		{Public, Public, false},
		{"", Protected, true},
	}

	for _, tt := range tests {
		if got := tt.from.ReducedTo(tt.to); got != tt.want {
			t.Errorf("%s.ReducedTo(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDocAnnotations(t *testing.T) {
	internal := "/**\n * Something.\n *\n * @internal\n */"
	if !IsInternalDoc(internal) {
		t.Error("expected @internal to be detected")
	}
	if IsInternalDoc("/** @internalish */") {
		t.Error("@internalish must not count as @internal")
	}
	if !HasNoNamedArgumentsDoc("/** @no-named-arguments */") {
		t.Error("expected @no-named-arguments to be detected")
	}

	if got := DocumentedTypes("/** @var int|\\Foo\\Bar|null */"); !reflect.DeepEqual(got, []string{`Foo\Bar`, "int", "null"}) {
		t.Errorf("DocumentedTypes = %v", got)
	}
	if got := DocumentedTypes("/** nothing */"); got != nil {
		t.Errorf("DocumentedTypes = %v, want nil", got)
	}
}

func TestRequiredParameterCount(t *testing.T) {
	tests := []struct {
		name   string
		params []*Parameter
		want   int
	}{
		{"none", nil, 0},
		{"all required", []*Parameter{{Name: "a"}, {Name: "b"}}, 2},
		{"trailing default", []*Parameter{{Name: "a"}, {Name: "b", HasDefault: true}}, 1},
		{"default before required", []*Parameter{{Name: "a", HasDefault: true}, {Name: "b"}}, 2},
		{"variadic tail", []*Parameter{{Name: "a"}, {Name: "rest", Variadic: true}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Function{Name: "f", Parameters: tt.params}
			if got := f.RequiredParameterCount(); got != tt.want {
				t.Errorf("RequiredParameterCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDisplayNames(t *testing.T) {
	fn := &Function{Name: "foo"}
	if got := fn.DisplayName(); got != "foo()" {
		t.Errorf("function = %q", got)
	}

	m := &Method{Function: Function{Name: "bar", Owner: "A"}}
	if got := m.DisplayName(); got != "A#bar()" {
		t.Errorf("method = %q", got)
	}
	m.Static = true
	if got := m.DisplayName(); got != "A::bar()" {
		t.Errorf("static method = %q", got)
	}

	p := &Property{Name: "x", Owner: "A"}
	if got := p.DisplayName(); got != "A#$x" {
		t.Errorf("property = %q", got)
	}
}

func TestSnapshotLookup(t *testing.T) {
	a := &Class{Name: `App\A`, Kind: KindClass, Methods: []*Method{{Function: Function{Name: "doIt"}}}}
	dep := &Class{Name: `Vendor\Base`, Kind: KindClass}
	s := NewSnapshot([]*Class{a}, []*Function{{Name: `App\helper`}}, []*Class{dep})

	if c, ok := s.Class(`\app\a`); !ok || c != a {
		t.Errorf("Class lookup failed: %v %v", c, ok)
	}
	if _, ok := s.Class(`Vendor\Base`); !ok {
		t.Error("dependency classes should be resolvable")
	}
	if _, ok := s.Function(`app\HELPER`); !ok {
		t.Error("function lookup should ignore case")
	}
	if _, ok := a.Method("DOIT"); !ok {
		t.Error("method lookup should ignore case")
	}
}

func TestAncestors(t *testing.T) {
	s := NewSnapshot([]*Class{
		{Name: "C", Kind: KindClass, Parent: "B", Interfaces: []string{"Countable"}},
		{Name: "B", Kind: KindClass, Parent: "A", Interfaces: []string{"I"}},
		{Name: "A", Kind: KindClass},
		{Name: "I", Kind: KindInterface, Interfaces: []string{"IteratorAggregate"}},
		{Name: "Broken", Kind: KindClass, Parent: "Missing"},
		{Name: "Partial", Kind: KindClass, Parent: "A", Interfaces: []string{`Ext\Missing`}},
	}, nil, nil)

	got, err := s.Ancestors("C")
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	want := []string{"B", "Countable", "A", "I", "IteratorAggregate", "Traversable"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ancestors(C) = %v, want %v", got, want)
	}

	ok, err := s.IsSubclassOf("c", "traversable")
	if err != nil || !ok {
		t.Errorf("IsSubclassOf(C, Traversable) = %v, %v", ok, err)
	}

	if ok, err := s.IsSubclassOf("Partial", `\A`); err != nil || !ok {
		t.Errorf("IsSubclassOf(Partial, A) = %v, %v, want true past an unresolvable interface", ok, err)
	}
	if ok, err := s.IsSubclassOf("Partial", "I"); ok || !errors.Is(err, ErrUnknownClass) {
		t.Errorf("IsSubclassOf(Partial, I) = %v, %v, want false, ErrUnknownClass", ok, err)
	}

	if _, err := s.Ancestors("Broken"); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("err = %v, want ErrUnknownClass", err)
	}
	if _, err := s.Ancestors("Nope"); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("err = %v, want ErrUnknownClass", err)
	}
}

func TestInheritedMembers(t *testing.T) {
	s := NewSnapshot([]*Class{
		{Name: "Child", Kind: KindClass, Parent: "Base", Traits: []string{"T"},
			Methods: []*Method{{Function: Function{Name: "run", Owner: "Child"}}}},
		{Name: "Base", Kind: KindClass, Parent: `Vendor\Missing`,
			Methods:    []*Method{{Function: Function{Name: "RUN", Owner: "Base"}}, {Function: Function{Name: "stop", Owner: "Base"}}},
			Properties: []*Property{{Name: "state", Owner: "Base"}},
			Constants:  []*Constant{{Name: "LIMIT", Owner: "Base"}}},
		{Name: "T", Kind: KindTrait,
			Methods: []*Method{{Function: Function{Name: "helper", Owner: "T"}}}},
	}, nil, nil)
	child, _ := s.Class("Child")

	var methods []string
	for _, m := range s.MethodsOf(child) {
		methods = append(methods, m.Owner+"::"+m.Name)
	}
	if want := []string{"Child::run", "T::helper", "Base::stop"}; !reflect.DeepEqual(methods, want) {
		t.Errorf("MethodsOf(Child) = %v, want %v", methods, want)
	}
	if got := s.PropertiesOf(child); len(got) != 1 || got[0].Name != "state" {
		t.Errorf("PropertiesOf(Child) = %v", got)
	}
	if got := s.ConstantsOf(child); len(got) != 1 || got[0].Name != "LIMIT" {
		t.Errorf("ConstantsOf(Child) = %v", got)
	}

	if got, want := s.DeclaredAncestors(child), []string{"Base", `Vendor\Missing`}; !reflect.DeepEqual(got, want) {
		t.Errorf("DeclaredAncestors(Child) = %v, want %v", got, want)
	}

	var nilSnapshot *Snapshot
	if got := nilSnapshot.MethodsOf(child); len(got) != 1 {
		t.Errorf("nil snapshot should list declared methods only, got %d", len(got))
	}
}
