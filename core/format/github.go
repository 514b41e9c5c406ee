package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/emenda-labs/bccheck/core/changespec"
)

// GitHubActions emits workflow commands so that changes show up as
// annotations: breaks as errors, skipped checks as warnings and everything
// else as notices.
type GitHubActions struct {
	w io.Writer
}

func NewGitHubActions(w io.Writer) *GitHubActions {
	return &GitHubActions{w: w}
}

var commandEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

func (g *GitHubActions) Write(report changespec.Report) error {
	for _, ch := range report.Changes.List() {
		level := "notice"
		switch {
		case ch.IsBreak():
			level = "error"
		case ch.Kind() == changespec.ChangeKindSkipped:
			level = "warning"
		}
		title := strings.ToUpper(string(ch.Kind()))
		if _, err := fmt.Fprintf(g.w, "::%s title=%s::%s\n", level, title, commandEscaper.Replace(ch.Message())); err != nil {
			return err
		}
	}
	return nil
}
