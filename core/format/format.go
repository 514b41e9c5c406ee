// Package format renders comparison reports for humans and CI systems.
package format

import (
	"fmt"
	"io"

	"github.com/emenda-labs/bccheck/core/changespec"
)

// Formatter writes a report to its destination.
type Formatter interface {
	Write(report changespec.Report) error
}

// New returns the formatter registered under name.
func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "console":
		return NewConsole(w, false), nil
	case "markdown":
		return NewMarkdown(w), nil
	case "github-actions":
		return NewGitHubActions(w), nil
	case "json":
		return NewJSON(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}

// Multi writes the same report with every formatter, stopping at the first error.
type Multi []Formatter

func (m Multi) Write(report changespec.Report) error {
	for _, f := range m {
		if err := f.Write(report); err != nil {
			return err
		}
	}
	return nil
}
