// Package archive unpacks repository archives into temporary directories.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Limits bound what an archive may expand to.
type Limits struct {
	MaxFileSize  int64
	MaxTotalSize int64
	MaxFiles     int
}

// DefaultLimits fit any reasonable library checkout.
var DefaultLimits = Limits{
	MaxFileSize:  100 * 1024 * 1024,  // 100 MB per file
	MaxTotalSize: 1024 * 1024 * 1024, // 1 GB total extracted
	MaxFiles:     50000,
}

// ExtractZip unpacks a zip archive with DefaultLimits.
func ExtractZip(data []byte, prefix string) (dir string, cleanup func(), err error) {
	return DefaultLimits.ExtractZip(data, prefix)
}

// ExtractZip unpacks a zip archive to a new temp directory named after
// prefix. Returns the directory and a cleanup function removing it.
// Entries escaping the directory and symlinks are rejected or skipped.
func (l Limits) ExtractZip(data []byte, prefix string) (dir string, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp("", "bccheck-"+prefix+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanupFn := func() { os.RemoveAll(tmpDir) }

	if err := l.extract(data, tmpDir); err != nil {
		cleanupFn()
		return "", nil, err
	}
	return tmpDir, cleanupFn, nil
}

func (l Limits) extract(data []byte, dest string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("zip entry attempts path traversal: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to read zip archive: %w", err)
	}
	if len(reader.File) > l.MaxFiles {
		return fmt.Errorf("zip archive contains %d files, exceeds maximum of %d", len(reader.File), l.MaxFiles)
	}

	base, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	var total int64
	for _, file := range reader.File {
		if file.Mode()&os.ModeSymlink != 0 {
			continue
		}

		target, err := containedPath(base, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", file.Name, err)
			}
			continue
		}

		n, err := l.writeEntry(file, target)
		if err != nil {
			return err
		}
		total += n
		if total > l.MaxTotalSize {
			return fmt.Errorf("total extracted size exceeds maximum of %d bytes", l.MaxTotalSize)
		}
	}
	return nil
}

// containedPath joins name to base and rejects results outside base.
func containedPath(base, name string) (string, error) {
	target, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", name, err)
	}
	if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("zip entry attempts path traversal: %s", name)
	}
	return target, nil
}

func (l Limits) writeEntry(file *zip.File, target string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create parent directory for %s: %w", file.Name, err)
	}

	rc, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open zip entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", file.Name, err)
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(rc, l.MaxFileSize+1))
	if err != nil {
		return 0, fmt.Errorf("failed to extract %s: %w", file.Name, err)
	}
	if n > l.MaxFileSize {
		return 0, fmt.Errorf("file %s exceeds maximum size of %d bytes", file.Name, l.MaxFileSize)
	}
	return n, nil
}
