package changespec

import (
	"encoding/json"
	"strings"
)

// ChangeKind represents how a symbol's contract moved between two versions.
type ChangeKind string

const (
	ChangeKindAdded   ChangeKind = "added"
	ChangeKindChanged ChangeKind = "changed"
	ChangeKindRemoved ChangeKind = "removed"
	ChangeKindSkipped ChangeKind = "skipped"
)

// Change is a single reported difference. The zero value is not meaningful;
// use the constructors.
type Change struct {
	kind    ChangeKind
	message string
	isBreak bool
}

// Added reports a capability that appeared in the new version.
func Added(message string, isBreak bool) Change {
	return Change{kind: ChangeKindAdded, message: message, isBreak: isBreak}
}

// Changed reports a modified declaration.
func Changed(message string, isBreak bool) Change {
	return Change{kind: ChangeKindChanged, message: message, isBreak: isBreak}
}

// Removed reports a declaration that disappeared.
func Removed(message string, isBreak bool) Change {
	return Change{kind: ChangeKindRemoved, message: message, isBreak: isBreak}
}

// Skipped records a check that could not complete. Skipped changes are never breaks.
func Skipped(err error) Change {
	return Change{kind: ChangeKindSkipped, message: err.Error()}
}

func (c Change) Kind() ChangeKind { return c.kind }
func (c Change) Message() string  { return c.message }
func (c Change) IsBreak() bool    { return c.isBreak }

// String renders the change the way console output shows it, e.g.
// "[BC] REMOVED: Class Foo has been deleted".
func (c Change) String() string {
	prefix := "     "
	if c.isBreak {
		prefix = "[BC] "
	}
	return prefix + strings.ToUpper(string(c.kind)) + ": " + c.message
}

type changeJSON struct {
	Kind    ChangeKind `json:"kind"`
	Message string     `json:"message"`
	IsBreak bool       `json:"is_break"`
}

func (c Change) MarshalJSON() ([]byte, error) {
	return json.Marshal(changeJSON{Kind: c.kind, Message: c.message, IsBreak: c.isBreak})
}

func (c *Change) UnmarshalJSON(data []byte) error {
	var raw changeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Change{kind: raw.Kind, message: raw.Message, isBreak: raw.IsBreak}
	return nil
}

// Report is the full result of comparing two revisions of a library.
type Report struct {
	Repository   string  `json:"repository"`
	FromRevision string  `json:"from_revision"`
	ToRevision   string  `json:"to_revision"`
	Changes      Changes `json:"changes"`
}
