package composer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Package is one entry of vendor/composer/installed.json.
type Package struct {
	Name        string   `json:"name"`
	InstallPath string   `json:"install-path"`
	Autoload    Autoload `json:"autoload"`
}

// Dir returns the absolute install directory of the package.
func (p Package) Dir(root string) string {
	if p.InstallPath != "" {
		return filepath.Join(root, "vendor", "composer", filepath.FromSlash(p.InstallPath))
	}
	return filepath.Join(root, "vendor", filepath.FromSlash(p.Name))
}

// InstalledPackages lists the packages installed under root/vendor. A tree
// without installed dependencies yields no packages and no error.
func InstalledPackages(root string) ([]Package, error) {
	data, err := os.ReadFile(filepath.Join(root, "vendor", "composer", "installed.json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Composer 2 wraps the list in an object, composer 1 writes a bare list.
	var wrapped struct {
		Packages []Package `json:"packages"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return wrapped.Packages, nil
	}
	var list []Package
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing installed.json: %w", err)
	}
	return list, nil
}

// DependencyPaths returns the absolute autoload paths of every installed package.
func DependencyPaths(root string) ([]string, error) {
	packages, err := InstalledPackages(root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range packages {
		dir := p.Dir(root)
		for _, rel := range p.Autoload.Paths() {
			path := filepath.Join(dir, rel)
			if _, err := os.Stat(path); err == nil {
				out = append(out, path)
			}
		}
	}
	return out, nil
}
