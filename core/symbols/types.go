// Package symbols holds the immutable structural model of a library's
// declarations that the comparison engine reads.
package symbols

import "strings"

// Kind classifies a class-like symbol.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindTrait     Kind = "trait"
)

// Title returns the capitalized kind, as used in messages.
func (k Kind) Title() string {
	switch k {
	case KindInterface:
		return "Interface"
	case KindTrait:
		return "Trait"
	default:
		return "Class"
	}
}

// Visibility is the access level of a member. The empty value means public.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

func (v Visibility) rank() int {
	switch v {
	case Protected:
		return 1
	case Private:
		return 2
	default:
		return 0
	}
}

// ReducedTo reports whether to is strictly more restrictive than v.
func (v Visibility) ReducedTo(to Visibility) bool {
	return to.rank() > v.rank()
}

func (v Visibility) String() string {
	if v == "" {
		return string(Public)
	}
	return string(v)
}

// Member is implemented by methods, properties and class constants.
type Member interface {
	MemberName() string
	MemberVisibility() Visibility
	Internal() bool
}

// Class describes a class, interface or trait.
type Class struct {
	Name       string      `yaml:"name" json:"name"`
	Kind       Kind        `yaml:"kind" json:"kind"`
	Abstract   bool        `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Final      bool        `yaml:"final,omitempty" json:"final,omitempty"`
	Anonymous  bool        `yaml:"anonymous,omitempty" json:"anonymous,omitempty"`
	Parent     string      `yaml:"parent,omitempty" json:"parent,omitempty"`
	Interfaces []string    `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Traits     []string    `yaml:"traits,omitempty" json:"traits,omitempty"`
	Methods    []*Method   `yaml:"methods,omitempty" json:"methods,omitempty"`
	Properties []*Property `yaml:"properties,omitempty" json:"properties,omitempty"`
	Constants  []*Constant `yaml:"constants,omitempty" json:"constants,omitempty"`
	DocComment string      `yaml:"doc,omitempty" json:"doc,omitempty"`
	File       string      `yaml:"file,omitempty" json:"file,omitempty"`
}

func (c *Class) IsInterface() bool { return c.Kind == KindInterface }
func (c *Class) IsTrait() bool     { return c.Kind == KindTrait }

// Internal reports whether the class is excluded from the public contract.
func (c *Class) Internal() bool { return IsInternalDoc(c.DocComment) }

// Method looks up a method by name. Method names are case-insensitive.
func (c *Class) Method(name string) (*Method, bool) {
	for _, m := range c.Methods {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return nil, false
}

// Property looks up a property by name.
func (c *Class) Property(name string) (*Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Constant looks up a class constant by name.
func (c *Class) Constant(name string) (*Constant, bool) {
	for _, k := range c.Constants {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}

// Function describes a top-level function or the callable part of a method.
type Function struct {
	Name             string       `yaml:"name" json:"name"`
	Owner            string       `yaml:"owner,omitempty" json:"owner,omitempty"`
	Static           bool         `yaml:"static,omitempty" json:"static,omitempty"`
	Parameters       []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	ReturnType       Type         `yaml:"return_type,omitempty" json:"return_type,omitempty"`
	ReturnsReference bool         `yaml:"returns_reference,omitempty" json:"returns_reference,omitempty"`
	DocComment       string       `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// DisplayName renders "name()" for functions, "Owner#name()" for instance
// methods and "Owner::name()" for static methods.
func (f *Function) DisplayName() string {
	if f.Owner == "" {
		return f.Name + "()"
	}
	if f.Static {
		return f.Owner + "::" + f.Name + "()"
	}
	return f.Owner + "#" + f.Name + "()"
}

func (f *Function) Internal() bool { return IsInternalDoc(f.DocComment) }

// NoNamedArguments reports whether callers are told not to rely on parameter names.
func (f *Function) NoNamedArguments() bool { return HasNoNamedArgumentsDoc(f.DocComment) }

// RequiredParameterCount is the number of leading arguments a caller must pass.
func (f *Function) RequiredParameterCount() int {
	n := 0
	for i, p := range f.Parameters {
		if !p.Optional() {
			n = i + 1
		}
	}
	return n
}

// Parameter returns the parameter at position, if any.
func (f *Function) Parameter(position int) (*Parameter, bool) {
	if position < 0 || position >= len(f.Parameters) {
		return nil, false
	}
	return f.Parameters[position], true
}

// Method is a function declared on a class-like symbol.
type Method struct {
	Function   `yaml:",inline"`
	Visibility Visibility `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Abstract   bool       `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Final      bool       `yaml:"final,omitempty" json:"final,omitempty"`
}

func (m *Method) MemberName() string           { return m.Name }
func (m *Method) MemberVisibility() Visibility { return m.Visibility }

// Property is a class or trait property.
type Property struct {
	Name       string     `yaml:"name" json:"name"`
	Owner      string     `yaml:"owner,omitempty" json:"owner,omitempty"`
	Visibility Visibility `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Static     bool       `yaml:"static,omitempty" json:"static,omitempty"`
	Readonly   bool       `yaml:"readonly,omitempty" json:"readonly,omitempty"`
	Type       Type       `yaml:"type,omitempty" json:"type,omitempty"`
	HasDefault bool       `yaml:"has_default,omitempty" json:"has_default,omitempty"`
	Default    string     `yaml:"default,omitempty" json:"default,omitempty"`
	DocComment string     `yaml:"doc,omitempty" json:"doc,omitempty"`
}

func (p *Property) MemberName() string           { return p.Name }
func (p *Property) MemberVisibility() Visibility { return p.Visibility }
func (p *Property) Internal() bool               { return IsInternalDoc(p.DocComment) }

// DisplayName renders "Owner#$name", or "Owner::$name" for static properties.
func (p *Property) DisplayName() string {
	if p.Static {
		return p.Owner + "::$" + p.Name
	}
	return p.Owner + "#$" + p.Name
}

// Constant is a class constant, or an enum case.
type Constant struct {
	Name       string     `yaml:"name" json:"name"`
	Owner      string     `yaml:"owner,omitempty" json:"owner,omitempty"`
	Visibility Visibility `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Final      bool       `yaml:"final,omitempty" json:"final,omitempty"`
	Value      string     `yaml:"value,omitempty" json:"value,omitempty"`
	DocComment string     `yaml:"doc,omitempty" json:"doc,omitempty"`
}

func (k *Constant) MemberName() string           { return k.Name }
func (k *Constant) MemberVisibility() Visibility { return k.Visibility }
func (k *Constant) Internal() bool               { return IsInternalDoc(k.DocComment) }
func (k *Constant) DisplayName() string          { return k.Owner + "::" + k.Name }

// Parameter is one entry of a function signature.
type Parameter struct {
	Name        string `yaml:"name" json:"name"`
	Position    int    `yaml:"position" json:"position"`
	Type        Type   `yaml:"type,omitempty" json:"type,omitempty"`
	ByReference bool   `yaml:"by_reference,omitempty" json:"by_reference,omitempty"`
	HasDefault  bool   `yaml:"has_default,omitempty" json:"has_default,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
	Variadic    bool   `yaml:"variadic,omitempty" json:"variadic,omitempty"`
}

// Optional reports whether callers may omit the argument.
func (p *Parameter) Optional() bool { return p.HasDefault || p.Variadic }
