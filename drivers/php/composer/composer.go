// Package composer reads composer.json manifests and installs the
// dependencies of a checked out tree.
package composer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ManifestFile is the name of the composer manifest.
const ManifestFile = "composer.json"

// Paths is an autoload target, written either as a string or a list.
type Paths []string

func (p *Paths) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*p = Paths{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("autoload path must be a string or a list: %w", err)
	}
	*p = many
	return nil
}

// Autoload is the autoload section of a manifest.
type Autoload struct {
	PSR4     map[string]Paths `json:"psr-4"`
	PSR0     map[string]Paths `json:"psr-0"`
	Classmap []string         `json:"classmap"`
	Files    []string         `json:"files"`
}

// Paths lists every autoloaded directory or file, deduplicated and sorted.
func (a Autoload) Paths() []string {
	seen := map[string]struct{}{}
	add := func(p string) {
		clean := filepath.Clean(filepath.FromSlash(p))
		seen[clean] = struct{}{}
	}
	for _, prefixes := range []map[string]Paths{a.PSR4, a.PSR0} {
		for _, paths := range prefixes {
			for _, p := range paths {
				add(p)
			}
		}
	}
	for _, p := range a.Classmap {
		add(p)
	}
	for _, p := range a.Files {
		add(p)
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Manifest is the subset of composer.json the tool reads.
type Manifest struct {
	Name     string   `json:"name"`
	Autoload Autoload `json:"autoload"`
}

// ReadManifest parses root/composer.json.
func ReadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	return &m, nil
}

// SourcePaths returns the directories and files holding the library's own
// code, relative to root. Autoload entries that do not exist in this
// revision are dropped. Without a manifest or usable autoload section, src
// is used when present.
func SourcePaths(root string) ([]string, error) {
	m, err := ReadManifest(root)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var paths []string
	if m != nil {
		for _, p := range m.Autoload.Paths() {
			if _, err := os.Stat(filepath.Join(root, p)); err == nil {
				paths = append(paths, p)
			}
		}
	}
	if len(paths) > 0 {
		return paths, nil
	}
	if info, err := os.Stat(filepath.Join(root, "src")); err == nil && info.IsDir() {
		return []string{"src"}, nil
	}
	return nil, fmt.Errorf("no autoload paths in %s and no src directory in %s", ManifestFile, root)
}
