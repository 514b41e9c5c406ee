package format

import (
	"io"
	"strings"

	"github.com/emenda-labs/bccheck/core/changespec"
)

// Markdown groups changes under "# Added", "# Changed", "# Removed" and
// "# Skipped" headings. Breaks keep their "[BC]" marker.
type Markdown struct {
	w io.Writer
}

func NewMarkdown(w io.Writer) *Markdown {
	return &Markdown{w: w}
}

func (m *Markdown) Write(report changespec.Report) error {
	sections := []struct {
		title string
		kind  changespec.ChangeKind
	}{
		{"Added", changespec.ChangeKindAdded},
		{"Changed", changespec.ChangeKindChanged},
		{"Removed", changespec.ChangeKindRemoved},
		{"Skipped", changespec.ChangeKindSkipped},
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("# " + s.title + "\n")
		for _, ch := range report.Changes.List() {
			if ch.Kind() != s.kind {
				continue
			}
			b.WriteString(" - ")
			if ch.IsBreak() {
				b.WriteString("[BC] ")
			}
			b.WriteString(ch.Message() + "\n")
		}
	}

	_, err := io.WriteString(m.w, b.String())
	return err
}
