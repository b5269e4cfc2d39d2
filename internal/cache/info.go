package cache

import (
	"os"
	"time"
)

// Info summarizes a cache file for `bft status`.
type Info struct {
	Path    string
	Size    int64
	Updated time.Time
	// TotalEntries counts cached commands, Registered those that had a
	// compspec and Expired those older than the TTL.
	TotalEntries int
	Registered   int
	Expired      int
}

// Stats counts the entries held in memory against ttl.
func (c *Cache) Stats(ttl time.Duration) Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info := Info{Path: c.path, TotalEntries: len(c.data)}
	now := time.Now()
	for _, e := range c.data {
		if e == nil {
			continue
		}
		if e.Spec != nil {
			info.Registered++
		}
		if now.Sub(e.Timestamp) > ttl {
			info.Expired++
		}
	}
	return info
}

// GetCacheInfo describes the cache file at path. A missing file gives an
// empty Info; an unreadable one only reports its size.
func GetCacheInfo(path string, ttl time.Duration) (*Info, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &Info{Path: path}, nil
	}
	if err != nil {
		return nil, err
	}

	c, err := New(path)
	if err != nil {
		return &Info{Path: path, Size: fi.Size()}, nil
	}
	info := c.Stats(ttl)
	info.Size = fi.Size()
	info.Updated = fi.ModTime()
	return &info, nil
}
