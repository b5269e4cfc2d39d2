package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCacheInfo_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	info, err := GetCacheInfo(path, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, path, info.Path)
	assert.Zero(t, info.Size)
	assert.Zero(t, info.TotalEntries)
}

func TestGetCacheInfo_Counts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c, err := New(path)
	require.NoError(t, err)
	c.Set(&Entry{Command: "git", Spec: &compspec.Spec{Name: "git"}, Timestamp: time.Now()})
	c.Set(&Entry{Command: "ls", Timestamp: time.Now()})
	c.Set(&Entry{Command: "old", Spec: &compspec.Spec{Name: "old"}, Timestamp: time.Now().Add(-72 * time.Hour)})
	require.NoError(t, c.Save())

	info, err := GetCacheInfo(path, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, info.TotalEntries)
	assert.Equal(t, 2, info.Registered)
	assert.Equal(t, 1, info.Expired)
	assert.Positive(t, info.Size)
}

func TestGetCacheInfo_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))

	info, err := GetCacheInfo(path, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.Size)
	assert.Zero(t, info.TotalEntries)
}

func TestStats_InMemory(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	c.Set(&Entry{Command: "git", Spec: &compspec.Spec{Name: "git"}, Timestamp: time.Now()})
	c.Set(&Entry{Command: "ls", Timestamp: time.Now().Add(-2 * time.Hour)})

	info := c.Stats(time.Hour)
	assert.Equal(t, c.Path(), info.Path)
	assert.Equal(t, 2, info.TotalEntries)
	assert.Equal(t, 1, info.Registered)
	assert.Equal(t, 1, info.Expired)
	assert.Zero(t, info.Size, "nothing saved yet")
}
