package composer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}

func TestSourcePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "composer.json", `{
		"name": "acme/shapes",
		"autoload": {
			"psr-4": {"Acme\\Shapes\\": "src/", "Acme\\Legacy\\": ["legacy/", "src/"]},
			"classmap": ["lib/"],
			"files": ["bootstrap.php", "missing.php"]
		}
	}`)
	writeFile(t, dir, "src/Circle.php", "<?php")
	writeFile(t, dir, "legacy/Old.php", "<?php")
	writeFile(t, dir, "lib/Util.php", "<?php")
	writeFile(t, dir, "bootstrap.php", "<?php")

	got, err := SourcePaths(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"bootstrap.php", "legacy", "lib", "src"}, got)
}

func TestSourcePathsFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/Circle.php", "<?php")

	got, err := SourcePaths(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"src"}, got)

	_, err = SourcePaths(t.TempDir())
	assert.Error(t, err)
}

func TestSourcePathsInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "composer.json", `{"autoload": {"psr-4": {"A\\": 42}}}`)

	_, err := SourcePaths(dir)
	assert.Error(t, err)
}

func TestDependencyPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vendor/composer/installed.json", `{
		"packages": [
			{"name": "psr/log", "install-path": "../psr/log", "autoload": {"psr-4": {"Psr\\Log\\": "src"}}},
			{"name": "acme/empty", "install-path": "../acme/empty"}
		]
	}`)
	writeFile(t, dir, "vendor/psr/log/src/LoggerInterface.php", "<?php")

	got, err := DependencyPaths(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "vendor", "psr", "log", "src")}, got)
}

func TestInstalledPackagesComposerOne(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vendor/composer/installed.json", `[{"name": "psr/log"}]`)

	packages, err := InstalledPackages(dir)
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, filepath.Join(dir, "vendor", "psr", "log"), packages[0].Dir(dir))

	none, err := InstalledPackages(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestArgs(t *testing.T) {
	assert.Contains(t, Args(false), "--no-dev")
	assert.NotContains(t, Args(true), "--no-dev")
	assert.Equal(t, "install", Args(true)[0])
}

func TestInstallRunsInRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as composer")
	}
	bin := t.TempDir()
	writeFile(t, bin, "composer", "#!/bin/sh\npwd -P > invocation.txt\necho \"$@\" >> invocation.txt\n")
	root := t.TempDir()
	before, err := os.Getwd()
	require.NoError(t, err)

	err = Installer{Binary: filepath.Join(bin, "composer")}.Install(context.Background(), root, false)
	require.NoError(t, err)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after, "the process directory must not change")

	data, err := os.ReadFile(filepath.Join(root, "invocation.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	resolvedRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, resolvedRoot, lines[0])
	assert.Equal(t, strings.Join(Args(false), " "), lines[1])
}

func TestInstallFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as composer")
	}
	bin := t.TempDir()
	writeFile(t, bin, "composer", "#!/bin/sh\necho 'Your requirements could not be resolved' >&2\nexit 2\n")

	err := Installer{Binary: filepath.Join(bin, "composer")}.Install(context.Background(), t.TempDir(), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be resolved")
}
