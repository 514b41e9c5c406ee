package symbols

import (
	"regexp"
	"sort"
	"strings"
)

var (
	internalTag         = regexp.MustCompile(`\s@internal\s`)
	noNamedArgumentsTag = regexp.MustCompile(`\s@no-named-arguments\s`)
	varTag              = regexp.MustCompile(`@var\s+([^\s*]+)`)
)

// IsInternalDoc reports whether a doc comment carries an @internal tag.
func IsInternalDoc(doc string) bool {
	return internalTag.MatchString(doc)
}

// HasNoNamedArgumentsDoc reports whether a doc comment carries @no-named-arguments.
func HasNoNamedArgumentsDoc(doc string) bool {
	return noNamedArgumentsTag.MatchString(doc)
}

// DocumentedTypes returns the sorted members of the first @var tag in doc.
func DocumentedTypes(doc string) []string {
	m := varTag.FindStringSubmatch(doc)
	if m == nil {
		return nil
	}
	var types []string
	for _, t := range strings.Split(m[1], "|") {
		t = strings.TrimPrefix(strings.TrimSpace(t), `\`)
		if t != "" {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}
