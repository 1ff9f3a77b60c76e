package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"quilcirq/latex"
)

// Bump when cacheEntry changes shape; older entries are then ignored.
const cacheSchemaVersion uint16 = 1

// cacheKey identifies one rendering: the source text plus every setting
// that affects output.
type cacheKey [sha256.Size]byte

func (k cacheKey) String() string { return hex.EncodeToString(k[:]) }

func newCacheKey(src string, s latex.Settings) (cacheKey, error) {
	settings, err := msgpack.Marshal(&s)
	if err != nil {
		return cacheKey{}, fmt.Errorf("encode settings: %w", err)
	}
	h := sha256.New()
	h.Write(settings)
	h.Write([]byte{0})
	h.Write([]byte(src))

	var k cacheKey
	copy(k[:], h.Sum(nil))
	return k, nil
}

// cacheEntry is one rendered document as stored on disk.
type cacheEntry struct {
	Schema   uint16
	Document string
	Qubits   int
	Columns  int
	Created  time.Time
}

// renderCache stores rendered documents on disk, keyed by cacheKey.
// Safe for concurrent use.
type renderCache struct {
	mu  sync.RWMutex
	dir string
}

// openCache returns a cache rooted at dir, or at $XDG_CACHE_HOME/quilcirq
// (~/.cache/quilcirq) when dir is empty.
func openCache(dir string) (*renderCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, appName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &renderCache{dir: dir}, nil
}

func (c *renderCache) pathFor(key cacheKey) string {
	hexKey := key.String()
	return filepath.Join(c.dir, "docs", hexKey[:2], hexKey+".mp")
}

// Put writes e under key. The entry appears atomically.
func (c *renderCache) Put(key cacheKey, e *cacheEntry) (err error) {
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
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	e.Schema = cacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(e); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry for key. A missing or stale entry is a miss, not an error.
func (c *renderCache) Get(key cacheKey) (*cacheEntry, bool, error) {
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

	var e cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	if e.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// Clear removes every cached entry.
func (c *renderCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
