package php

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/bccheck/core/driver"
	"github.com/emenda-labs/bccheck/drivers/php/phpparse"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

type recordingInstaller struct {
	calls []bool
}

func (r *recordingInstaller) Install(_ context.Context, _ string, dev bool) error {
	r.calls = append(r.calls, dev)
	return nil
}

func TestBuildSnapshotFromAutoloadPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "composer.json", `{"autoload": {"psr-4": {"Acme\\": "lib/"}}}`)
	writeFile(t, root, "lib/Shape.php", `<?php
namespace Acme;

interface Shape { public function area(): float; }
`)
	writeFile(t, root, "lib/Geometry/Square.php", `<?php
namespace Acme\Geometry;

use Acme\Shape;

final class Square implements Shape {
    public function area(): float { return 1.0; }
}

function square(): Square { return new Square(); }
`)
	writeFile(t, root, "tests/SquareTest.php", `<?php class SquareTest {}`)

	snap, err := NewDriver(WithJobs(2)).BuildSnapshot(t.Context(), root, driver.BuildOptions{})
	require.NoError(t, err)

	require.Len(t, snap.Classes, 2)
	assert.Equal(t, `Acme\Geometry\Square`, snap.Classes[0].Name)
	assert.Equal(t, `Acme\Shape`, snap.Classes[1].Name)
	assert.Equal(t, []string{`Acme\Shape`}, snap.Classes[0].Interfaces)

	_, ok := snap.Class("SquareTest")
	assert.False(t, ok)

	fn, ok := snap.Function(`Acme\Geometry\square`)
	require.True(t, ok)
	assert.Equal(t, `Acme\Geometry\Square`, fn.ReturnType.String())
}

func TestBuildSnapshotSourcesPathOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/A.php", `<?php class A {}`)
	writeFile(t, root, "other/B.php", `<?php class B {}`)

	snap, err := NewDriver().BuildSnapshot(t.Context(), root, driver.BuildOptions{SourcesPath: "other"})
	require.NoError(t, err)
	require.Len(t, snap.Classes, 1)
	assert.Equal(t, "B", snap.Classes[0].Name)
}

func TestBuildSnapshotFirstDeclarationWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.php", `<?php final class Dup {}`)
	writeFile(t, root, "src/b.php", `<?php class Dup {}`)

	snap, err := NewDriver().BuildSnapshot(t.Context(), root, driver.BuildOptions{})
	require.NoError(t, err)
	require.Len(t, snap.Classes, 1)
	assert.True(t, snap.Classes[0].Final)
}

func TestBuildSnapshotWithDependencies(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Child.php", `<?php
namespace App;

class Child extends \Vendor\Base {}
`)
	writeFile(t, root, "vendor/composer/installed.json", `{"packages": [
  {"name": "vendor/base", "install-path": "../vendor/base", "autoload": {"psr-4": {"Vendor\\": "src/"}}}
]}`)
	writeFile(t, root, "vendor/vendor/base/src/Base.php", `<?php
namespace Vendor;

class Base { public function run(): void {} }
`)

	d := NewDriver()

	without, err := d.BuildSnapshot(t.Context(), root, driver.BuildOptions{})
	require.NoError(t, err)
	assert.Empty(t, without.Dependencies)

	with, err := d.BuildSnapshot(t.Context(), root, driver.BuildOptions{Dependencies: true})
	require.NoError(t, err)
	require.Len(t, with.Classes, 1)
	require.Len(t, with.Dependencies, 1)
	assert.Equal(t, `Vendor\Base`, with.Dependencies[0].Name)

	ok, err := with.IsSubclassOf(`App\Child`, `Vendor\Base`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBuildSnapshotSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Small.php", `<?php class Small {}`)
	writeFile(t, root, "src/Large.php", "<?php class Large {}\n// "+string(make([]byte, 64)))

	d := NewDriver()
	d.parser = phpparse.New(phpparse.WithMaxFileSize(40))

	snap, err := d.BuildSnapshot(t.Context(), root, driver.BuildOptions{})
	require.NoError(t, err)
	require.Len(t, snap.Classes, 1)
	assert.Equal(t, "Small", snap.Classes[0].Name)
}

func TestBuildSnapshotMissingSources(t *testing.T) {
	_, err := NewDriver().BuildSnapshot(t.Context(), t.TempDir(), driver.BuildOptions{})
	assert.ErrorContains(t, err, "locating sources")

	_, err = NewDriver().BuildSnapshot(t.Context(), t.TempDir(), driver.BuildOptions{SourcesPath: "nope"})
	assert.ErrorContains(t, err, "source path nope")
}

func TestInstallDependencies(t *testing.T) {
	root := t.TempDir()
	installer := &recordingInstaller{}
	d := NewDriver(WithInstaller(installer))

	require.NoError(t, d.InstallDependencies(t.Context(), root, true))
	assert.Empty(t, installer.calls, "no manifest means nothing to install")

	writeFile(t, root, "composer.json", `{}`)
	require.NoError(t, d.InstallDependencies(t.Context(), root, false))
	assert.Equal(t, []bool{false}, installer.calls)
}
