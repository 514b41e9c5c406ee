// Package git reads revisions of the repository under analysis through the
// git command line.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/emenda-labs/bccheck/pkg/archive"
)

var (
	// ErrNoVersions is returned when no stable semantic version tag exists.
	ErrNoVersions = errors.New("no stable version tags found")
	// ErrInvalidRevision is returned when git does not resolve a revision to a commit.
	ErrInvalidRevision = errors.New("invalid revision")
)

var sha1Pattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Repository is a local git working copy.
type Repository struct {
	Path string
	bin  string
}

// Open checks that path is inside a git working copy and returns its root.
func Open(ctx context.Context, path string) (*Repository, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git executable not found: %w", err)
	}
	r := &Repository{Path: path, bin: bin}
	out, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w", path, err)
	}
	r.Path = strings.TrimSpace(string(out))
	return r, nil
}

func (r *Repository) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = r.Path
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %s: %w", args[0], msg, err)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}

// ResolveRevision turns any revision expression (tag, branch, HEAD~2, ...)
// into a full commit hash.
func (r *Repository) ResolveRevision(ctx context.Context, rev string) (string, error) {
	if rev == "" || strings.HasPrefix(rev, "-") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRevision, rev)
	}
	out, err := r.run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidRevision, rev, err)
	}
	sha := strings.TrimSpace(string(out))
	if !sha1Pattern.MatchString(sha) {
		return "", fmt.Errorf("%w: %q resolved to %q", ErrInvalidRevision, rev, sha)
	}
	return sha, nil
}

// Tags lists every tag of the repository.
func (r *Repository) Tags(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(string(out), "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// LastMinorVersion returns the tag PickLastMinorVersion selects.
func (r *Repository) LastMinorVersion(ctx context.Context) (string, error) {
	tags, err := r.Tags(ctx)
	if err != nil {
		return "", err
	}
	return PickLastMinorVersion(tags)
}

// Checkout writes the tree of a resolved revision to a fresh temporary
// directory. The working copy itself is never touched. cleanup removes the
// directory.
func (r *Repository) Checkout(ctx context.Context, revision string) (dir string, cleanup func(), err error) {
	if !sha1Pattern.MatchString(revision) {
		return "", nil, fmt.Errorf("%w: checkout needs a resolved commit, got %q", ErrInvalidRevision, revision)
	}
	data, err := r.run(ctx, "archive", "--format=zip", revision)
	if err != nil {
		return "", nil, fmt.Errorf("archiving %s: %w", revision, err)
	}
	dir, cleanup, err = archive.ExtractZip(data, revision[:12])
	if err != nil {
		return "", nil, fmt.Errorf("extracting %s: %w", revision, err)
	}
	return dir, cleanup, nil
}
