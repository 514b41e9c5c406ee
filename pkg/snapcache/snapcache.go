// Package snapcache stores symbol snapshots on disk keyed by the commit they
// were built from, so repeated runs against the same baseline skip parsing.
package snapcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/emenda-labs/bccheck/core/symbols"
)

// Increment when the symbols model changes shape.
const schemaVersion uint16 = 2

// Key identifies one snapshot build.
type Key struct {
	Revision     string
	SourcesPath  string
	Dependencies bool
	// DevDependencies is set when development packages were installed too.
	DevDependencies bool
}

func (k Key) digest() string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{k.Revision, k.SourcesPath}, "\x00")))
	var flags byte
	if k.Dependencies {
		flags |= 1
	}
	if k.DevDependencies {
		flags |= 2
	}
	h.Write([]byte{0, flags})
	return hex.EncodeToString(h.Sum(nil))
}

type payload struct {
	Schema   uint16
	Revision string
	Snapshot *symbols.Snapshot
}

// Cache is a directory of msgpack encoded snapshots. A nil *Cache is a
// valid cache that never hits. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a cache rooted at dir, creating it if needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir is the per-user cache location.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "bccheck"), nil
}

func (c *Cache) pathFor(key Key) string {
	return filepath.Join(c.dir, "snapshots", key.digest()+".mp")
}

// Put writes snap under key, replacing any previous entry atomically.
func (c *Cache) Put(key Key, snap *symbols.Snapshot) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(&payload{Schema: schemaVersion, Revision: key.Revision, Snapshot: snap}); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get returns the snapshot stored under key. Entries written with another
// schema version or for another revision are misses.
func (c *Cache) Get(key Key) (*symbols.Snapshot, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, err
	}
	if out.Schema != schemaVersion || out.Revision != key.Revision || out.Snapshot == nil {
		return nil, false, nil
	}
	return out.Snapshot, true, nil
}

// DropAll removes every cached snapshot.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "snapshots"))
}
