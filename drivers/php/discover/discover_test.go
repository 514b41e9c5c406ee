package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "Circle.php", "<?php")
	writeFile(t, dir, "Shape/Polygon.PHP", "<?php")
	writeFile(t, dir, "README.md", "# shapes")
	writeFile(t, dir, "vendor/acme/lib/Lib.php", "<?php")
	writeFile(t, dir, "node_modules/x/y.php", "<?php")
	writeFile(t, dir, ".cache/Tmp.php", "<?php")

	got, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{"Circle.php", filepath.Join("Shape", "Polygon.PHP")}
	if len(got) != len(want) {
		t.Fatalf("Files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilesIncludeVendor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "vendor/acme/lib/Lib.php", "<?php")

	got, err := Files(dir, Options{IncludeVendor: true})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(got) != 1 || got[0] != filepath.Join("vendor", "acme", "lib", "Lib.php") {
		t.Errorf("Files = %v", got)
	}
}

func TestFilesGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated/\n*.stub.php\n")
	writeFile(t, dir, "Kept.php", "<?php")
	writeFile(t, dir, "generated/Proxy.php", "<?php")
	writeFile(t, dir, "Foo.stub.php", "<?php")
	writeFile(t, dir, "tests/FooTest.php", "<?php")

	got, err := Files(dir, Options{Ignore: []string{"tests/"}})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(got) != 1 || got[0] != "Kept.php" {
		t.Errorf("Files = %v, want [Kept.php]", got)
	}
}

func TestFilesMissingRoot(t *testing.T) {
	t.Parallel()

	if _, err := Files(filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Error("expected an error for a missing root")
	}
}
