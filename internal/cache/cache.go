// Package cache persists compspec lookups so that slow registries (a bash
// subprocess sourcing bash-completion) are only queried once per command.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/NikitaCOEUR/bft/internal/derrors"
)

// Entry is the cached answer for one command. A nil Spec records that the
// command had no registered compspec.
type Entry struct {
	Command   string         `json:"command"`
	Spec      *compspec.Spec `json:"spec,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
}

// Cache is a JSON file of entries keyed by command name, loaded once and
// written back on Save.
type Cache struct {
	path  string
	mu    sync.RWMutex
	data  map[string]*Entry
	dirty bool
}

// New loads the cache at path. A missing file is an empty cache; an
// unreadable or corrupt one is a CacheError.
func New(path string) (*Cache, error) {
	c := &Cache{path: path, data: map[string]*Entry{}}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, nil
	case err != nil:
		return nil, derrors.NewCacheError(path, "failed to read cache", err)
	}
	if err := json.Unmarshal(raw, &c.data); err != nil {
		return nil, derrors.NewCacheError(path, "corrupt cache file", err)
	}
	if c.data == nil {
		c.data = map[string]*Entry{}
	}
	return c, nil
}

// Path returns the file backing the cache.
func (c *Cache) Path() string { return c.path }

// Get returns the entry stored for command, ignoring its age.
func (c *Cache) Get(command string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[command]
	return e, ok
}

// Set stores an entry in memory. Call Save to persist it.
func (c *Cache) Set(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[e.Command] = e
	c.dirty = true
}

// Delete removes the entry for command and writes the file.
func (c *Cache) Delete(command string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, command)
	return c.write()
}

// Clear drops every entry and writes the file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string]*Entry{}
	return c.write()
}

// Commands returns the cached command names, sorted.
func (c *Cache) Commands() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.data))
	for name := range c.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFresh reports whether command has an entry younger than ttl written
// by version.
func (c *Cache) IsFresh(command, version string, ttl time.Duration) bool {
	e, ok := c.Get(command)
	return ok && e.Version == version && time.Since(e.Timestamp) <= ttl
}

// Save writes the file when entries were set since the last write.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	return c.write()
}

// write replaces the file through a rename so a concurrent reader never
// sees a partial file. Callers hold the write lock.
func (c *Cache) write() error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".cache-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return err
	}
	c.dirty = false
	return nil
}
