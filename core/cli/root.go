package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrBreaksFound is returned by the assert handler when the report holds at
// least one backwards-incompatible change.
var ErrBreaksFound = errors.New("backwards-incompatible changes detected")

// Exit statuses of the bccheck binary.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitBreaks  = 3
)

// NewRootCmd creates the top-level bccheck command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bccheck",
		Short: "Backwards compatibility checker for PHP libraries",
		Long:  "bccheck compares two revisions of a PHP library and reports changes that break its consumers.",

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version

	return cmd
}

// ExitCode maps the error returned by a command to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrBreaksFound):
		return ExitBreaks
	default:
		return ExitFailure
	}
}
