package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/bccheck/core/config"
)

// AssertOptions holds the parsed flags for "assert".
type AssertOptions struct {
	Repo                           string
	From                           string
	To                             string
	InstallDevelopmentDependencies bool
	Formats                        []string
	MarkdownFile                   string
	Config                         string
	SourcesPath                    string
	NoCache                        bool
}

// Apply overrides cfg with the flags that were given on the command line.
func (o AssertOptions) Apply(cfg *config.Config) {
	if len(o.Formats) > 0 {
		cfg.Formats = o.Formats
	}
	if o.MarkdownFile != "" {
		cfg.MarkdownFile = o.MarkdownFile
	}
	if o.SourcesPath != "" {
		cfg.SourcesPath = o.SourcesPath
	}
	if o.InstallDevelopmentDependencies {
		cfg.InstallDevelopmentDependencies = true
	}
}

// AssertRunFunc is the function signature for the assert command handler.
// It is injected by the wiring layer (cmd/bccheck/main.go).
type AssertRunFunc func(ctx context.Context, opts AssertOptions) error

// NewAssertCmd creates the "assert" subcommand.
func NewAssertCmd(runFunc AssertRunFunc) *cobra.Command {
	var opts AssertOptions

	cmd := &cobra.Command{
		Use:   "assert",
		Short: "Compare two revisions and fail on backwards-incompatible changes",
		Long: "Compare the public API of two revisions of the library in the current repository. " +
			"Exits with status 3 when a backwards-incompatible change is found.",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateAssertFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Repo, "repo", ".", "Path to the git repository")
	cmd.Flags().StringVar(&opts.From, "from", "", "Baseline revision (default: last minor version tag)")
	cmd.Flags().StringVar(&opts.To, "to", "HEAD", "Revision to check")
	cmd.Flags().BoolVar(&opts.InstallDevelopmentDependencies, "install-development-dependencies", false, "Also install require-dev packages")
	cmd.Flags().StringArrayVar(&opts.Formats, "format", nil, "Output format, repeatable: "+strings.Join(config.Formats, ", "))
	cmd.Flags().StringVar(&opts.MarkdownFile, "markdown-file", "", "Write the markdown report to this file instead of stdout")
	cmd.Flags().StringVar(&opts.Config, "config", "", "Configuration file (default: .bccheck.* in the repository)")
	cmd.Flags().StringVar(&opts.SourcesPath, "sources-path", "", "Analyse only this directory of the repository")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Do not read or write the snapshot cache")

	return cmd
}

func validateAssertFlags(opts AssertOptions) error {
	for _, f := range opts.Formats {
		if !slices.Contains(config.Formats, f) {
			return fmt.Errorf("unknown --format %q (want one of %s)", f, strings.Join(config.Formats, ", "))
		}
	}
	if opts.To == "" {
		return fmt.Errorf("--to must not be empty")
	}
	if strings.HasPrefix(opts.From, "-") || strings.HasPrefix(opts.To, "-") {
		return fmt.Errorf("revisions must not start with '-'")
	}
	return validateDir("repo", opts.Repo)
}

func validateDir(what, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s path does not exist: %s", what, path)
		}
		return fmt.Errorf("cannot access %s path: %w", what, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s path is not a directory: %s", what, path)
	}
	return nil
}
