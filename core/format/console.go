package format

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/emenda-labs/bccheck/core/changespec"
)

// Console prints one line per change followed by a summary.
type Console struct {
	w       io.Writer
	breaks  *color.Color
	skipped *color.Color
	plain   *color.Color
}

// NewConsole returns a console formatter. Colors are forced on when
// forceColor is set and otherwise follow the terminal detection of
// fatih/color.
func NewConsole(w io.Writer, forceColor bool) *Console {
	c := &Console{
		w:       w,
		breaks:  color.New(color.FgRed),
		skipped: color.New(color.FgYellow),
		plain:   color.New(color.Reset),
	}
	if forceColor {
		c.breaks.EnableColor()
		c.skipped.EnableColor()
	}
	return c
}

// WithoutColor disables escape sequences.
func (c *Console) WithoutColor() *Console {
	c.breaks.DisableColor()
	c.skipped.DisableColor()
	c.plain.DisableColor()
	return c
}

func (c *Console) Write(report changespec.Report) error {
	for _, ch := range report.Changes.List() {
		style := c.plain
		switch {
		case ch.IsBreak():
			style = c.breaks
		case ch.Kind() == changespec.ChangeKindSkipped:
			style = c.skipped
		}
		if _, err := style.Fprintln(c.w, ch.String()); err != nil {
			return err
		}
	}

	breaks := report.Changes.CountBreaks()
	if breaks == 0 {
		_, err := fmt.Fprintln(c.w, "No backwards-incompatible changes detected")
		return err
	}
	_, err := c.breaks.Fprintf(c.w, "%d backwards-incompatible changes detected\n", breaks)
	return err
}
