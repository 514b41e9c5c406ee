package composer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Installer runs composer install inside a checked out tree.
type Installer struct {
	// Binary is the composer executable, looked up in PATH when empty.
	Binary string
	// Output receives composer's progress output. Discarded when nil.
	Output io.Writer
}

// Args returns the composer arguments used for an installation.
func Args(dev bool) []string {
	args := []string{"install", "--no-interaction", "--no-progress", "--no-plugins", "--no-scripts", "--ignore-platform-reqs"}
	if !dev {
		args = append(args, "--no-dev")
	}
	return args
}

// Install installs the dependencies of root. Plugins and scripts are
// disabled because the tree may be any historic revision. The process
// working directory is left unchanged.
func (i Installer) Install(ctx context.Context, root string, dev bool) error {
	bin := i.Binary
	if bin == "" {
		found, err := exec.LookPath("composer")
		if err != nil {
			return fmt.Errorf("composer executable not found: %w", err)
		}
		bin = found
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, Args(dev)...)
	cmd.Dir = root
	cmd.Stdout = i.Output
	if i.Output != nil {
		cmd.Stderr = io.MultiWriter(i.Output, &stderr)
	} else {
		cmd.Stderr = &stderr
	}
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("composer install in %s: %s: %w", root, msg, err)
		}
		return fmt.Errorf("composer install in %s: %w", root, err)
	}
	return nil
}
