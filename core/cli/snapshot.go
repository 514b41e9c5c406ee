package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/bccheck/core/symbols"
)

// SnapshotOptions holds the parsed flags for "snapshot".
type SnapshotOptions struct {
	Path             string
	SourcesPath      string
	Output           string
	WithDependencies bool
}

// SnapshotRunFunc is the function signature for the snapshot command handler.
type SnapshotRunFunc func(ctx context.Context, opts SnapshotOptions) error

// NewSnapshotCmd creates the "snapshot" subcommand, which prints the symbol
// model of a source tree.
func NewSnapshotCmd(runFunc SnapshotRunFunc) *cobra.Command {
	var opts SnapshotOptions

	cmd := &cobra.Command{
		Use:   "snapshot [path]",
		Short: "Print the API symbols of a source tree",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = "."
			if len(args) == 1 {
				opts.Path = args[0]
			}
			if opts.Output != "yaml" && opts.Output != "json" {
				return fmt.Errorf("--output must be yaml or json, got %q", opts.Output)
			}
			return validateDir("source", opts.Path)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "yaml", "Output encoding: yaml or json")
	cmd.Flags().StringVar(&opts.SourcesPath, "sources-path", "", "Analyse only this directory")
	cmd.Flags().BoolVar(&opts.WithDependencies, "with-dependencies", false, "Include installed vendor packages")

	return cmd
}

// EncodeSnapshot writes snap to w as yaml or json.
func EncodeSnapshot(w io.Writer, snap *symbols.Snapshot, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown snapshot encoding %q", output)
	}
}
