package symbols

import "strings"

// Type is a declared type in canonical form: builtin names lowercase, class
// names fully qualified without a leading backslash, "?T" for nullable types,
// "A|B" for unions and "A&B" for intersections. The empty Type means no
// type was declared.
type Type string

var builtinTypes = map[string]struct{}{
	"array":    {},
	"bool":     {},
	"callable": {},
	"false":    {},
	"float":    {},
	"int":      {},
	"iterable": {},
	"mixed":    {},
	"never":    {},
	"null":     {},
	"object":   {},
	"parent":   {},
	"self":     {},
	"static":   {},
	"string":   {},
	"true":     {},
	"void":     {},
}

// IsBuiltinType reports whether name is a language type keyword rather than a class name.
func IsBuiltinType(name string) bool {
	_, ok := builtinTypes[strings.ToLower(name)]
	return ok
}

// Declared reports whether a type was declared at all.
func (t Type) Declared() bool { return t != "" }

func (t Type) String() string { return string(t) }

// Members splits the type into its union members. "?T" yields T and null;
// parentheses around intersection members are dropped.
func (t Type) Members() []string {
	s := string(t)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "?") {
		return []string{s[1:], "null"}
	}
	var members []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth == 0 {
				members = append(members, trimParens(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(members, trimParens(s[start:]))
}

// AllowsNull reports whether null satisfies the type.
func (t Type) AllowsNull() bool {
	for _, m := range t.Members() {
		if m == "null" || m == "mixed" {
			return true
		}
	}
	return false
}

// Has reports whether one of the union members equals name, ignoring case.
func (t Type) Has(name string) bool {
	for _, m := range t.Members() {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}

// NormalizeType turns a type as written in source into its canonical form.
// resolve maps a class name as written to its fully-qualified name; when nil
// only the leading backslash is removed.
func NormalizeType(raw string, resolve func(string) string) Type {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" {
		return ""
	}
	if resolve == nil {
		resolve = func(name string) string { return strings.TrimPrefix(name, `\`) }
	}

	nullable := strings.HasPrefix(s, "?")
	if nullable {
		s = s[1:]
	}

	members := Type(s).Members()
	out := make([]string, 0, len(members))
	for _, m := range members {
		parts := strings.Split(m, "&")
		for i, p := range parts {
			if IsBuiltinType(p) {
				parts[i] = strings.ToLower(p)
			} else {
				parts[i] = resolve(p)
			}
		}
		joined := strings.Join(parts, "&")
		if len(parts) > 1 && len(members) > 1 {
			joined = "(" + joined + ")"
		}
		out = append(out, joined)
	}

	canonical := strings.Join(out, "|")
	if nullable {
		canonical = "?" + canonical
	}
	return Type(canonical)
}

func trimParens(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
}
