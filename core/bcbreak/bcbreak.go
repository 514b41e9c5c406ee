// Package bcbreak implements the individual backward-compatibility rules and
// assembles them into the default check trees.
package bcbreak

import (
	"regexp"
	"strings"

	"github.com/emenda-labs/bccheck/core/changespec"
	"github.com/emenda-labs/bccheck/core/check"
	"github.com/emenda-labs/bccheck/core/symbols"
)

type (
	ClassCheck    = check.Check[*symbols.Class]
	MethodCheck   = check.Check[*symbols.Method]
	PropertyCheck = check.Check[*symbols.Property]
	ConstantCheck = check.Check[*symbols.Constant]
	FunctionCheck = check.Check[*symbols.Function]
)

type (
	classFunc    = check.Func[*symbols.Class]
	methodFunc   = check.Func[*symbols.Method]
	propertyFunc = check.Func[*symbols.Property]
	constantFunc = check.Func[*symbols.Constant]
	functionFunc = check.Func[*symbols.Function]
)

func none() (changespec.Changes, error) {
	return changespec.Empty(), nil
}

func one(c changespec.Change) (changespec.Changes, error) {
	return changespec.FromList(c), nil
}

func accessible(m symbols.Member) bool {
	return m.MemberVisibility() != symbols.Private
}

func scopeName(static bool) string {
	if static {
		return "static"
	}
	return "instance"
}

func referenceName(byRef bool) string {
	if byRef {
		return "by-reference"
	}
	return "by-value"
}

func typeOrNone(t symbols.Type, none string) string {
	if !t.Declared() {
		return none
	}
	return t.String()
}

var (
	whitespace   = regexp.MustCompile(`\s+`)
	singleQuoted = regexp.MustCompile(`^'([^'\\]*)'$`)
	doubleQuoted = regexp.MustCompile(`^"([^"\\$]*)"$`)
)

// normalizeValue reduces a source expression to a form where equal literal
// values compare equal.
func normalizeValue(expr string) string {
	v := strings.TrimSpace(whitespace.ReplaceAllString(expr, " "))
	switch strings.ToLower(v) {
	case "true", "false", "null":
		return strings.ToLower(v)
	}
	if m := doubleQuoted.FindStringSubmatch(v); m != nil {
		return "'" + m[1] + "'"
	}
	if m := singleQuoted.FindStringSubmatch(v); m != nil {
		return "'" + m[1] + "'"
	}
	if strings.HasPrefix(v, "array(") && strings.HasSuffix(v, ")") {
		return "[" + v[len("array("):len(v)-1] + "]"
	}
	return v
}

// renderDefault renders a possibly absent default value.
func renderDefault(has bool, value string) string {
	if !has {
		return "null"
	}
	return normalizeValue(value)
}
