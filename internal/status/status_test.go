package status

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/bft/internal/cache"
	"github.com/NikitaCOEUR/bft/internal/config"
	"github.com/NikitaCOEUR/bft/internal/setup"
)

func fakeLookPath(found ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCollectAll(t *testing.T) {
	home := t.TempDir()
	cacheDir := t.TempDir()
	registry := filepath.Join(t.TempDir(), "registry.yml")
	require.NoError(t, os.WriteFile(registry, []byte("version: v1\ncomplete:\n  - complete -W 'a b' foo\n  - complete -F _bar bar\n"), 0644))

	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"selector: none\ncobra_commands: [kubectl]\nregistry_file: "+registry+"\ncache_dir: "+cacheDir+"\n"), 0644))
	t.Setenv("BFT_PROMPT", "% ")

	_, err := setup.NewInstaller(home, "/usr/bin/bft").Install()
	require.NoError(t, err)

	data := CollectAll(Options{
		ConfigPath: cfgPath,
		Home:       home,
		Binary:     "/usr/bin/bft",
		LookPath:   fakeLookPath("bash", "kubectl"),
	})

	assert.True(t, data.Config.Loaded)
	assert.Equal(t, "none", data.Effective.Selector)
	assert.Equal(t, []string{"BFT_PROMPT"}, data.EnvOverrides)
	assert.True(t, data.HookInstalled)
	assert.Equal(t, filepath.Join(home, ".bashrc"), data.RCFile)
	assert.Equal(t, 2, data.RegistryCommands)
	assert.Empty(t, data.RegistryError)

	require.Len(t, data.Tools, 4)
	byName := map[string]ToolInfo{}
	for _, tool := range data.Tools {
		byName[tool.Name] = tool
	}
	assert.True(t, byName["bash"].Found)
	assert.False(t, byName["fzf"].Found)
	assert.False(t, byName["carapace"].Found)
	assert.Equal(t, "/usr/bin/kubectl", byName["kubectl"].Path)

	require.NotNil(t, data.Cache)
	assert.Equal(t, filepath.Join(cacheDir, CacheFileName), data.Cache.Path)
}

func TestCollectAll_BrokenRegistry(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("registry_file: /nonexistent/registry.yml\n"), 0644))

	data := CollectAll(Options{ConfigPath: cfgPath, LookPath: fakeLookPath()})
	assert.NotEmpty(t, data.RegistryError)
	assert.False(t, data.HookInstalled)
	assert.Empty(t, data.RCFile, "no home means no install check")
}

func TestCollectAll_BadEnvValue(t *testing.T) {
	t.Setenv("BFT_TIMEOUT", "bogus")

	var data *Data
	require.NotPanics(t, func() {
		data = CollectAll(Options{ConfigPath: filepath.Join(t.TempDir(), "config.yml"), LookPath: fakeLookPath()})
	})
	require.NotNil(t, data.Effective)
	assert.NotEmpty(t, data.Config.Error)
	assert.Equal(t, config.Default().CacheTTL, data.CacheTTL)
}

func TestRender(t *testing.T) {
	cfg := config.Default()
	data := &Data{
		Version:       "1.0.0",
		GitCommit:     "abc123",
		BuildTime:     "2024-01-01",
		Binary:        "/usr/bin/bft",
		HookInstalled: true,
		HookFile:      "/home/u/.bashrc.d/bft.sh",
		RCFile:        "/home/u/.bashrc",
		Config:        config.FileInfo{Path: "/home/u/.config/bft/config.yml", Exists: true, Loaded: true},
		EnvOverrides:  []string{"BFT_SELECTOR"},
		Effective:     cfg,
		Tools: []ToolInfo{
			{Name: "bash", Path: "/bin/bash", Found: true},
			{Name: "fzf", Purpose: "fzf selector"},
		},
		RegistryFile:     "/etc/bft/registry.yml",
		RegistryCommands: 3,
		Cache:            &cache.Info{Path: "/c/compspecs.json", Size: 2048, Updated: time.Now().Add(-3 * time.Hour), TotalEntries: 5, Registered: 2, Expired: 1},
		CacheTTL:         24 * time.Hour,
	}

	out := Render(data)

	for _, want := range []string{
		"Version:", "1.0.0", "abc123",
		"System & Installation:", "✓ Installed", "/home/u/.bashrc.d/bft.sh",
		"Configuration:", "config.yml", "BFT_SELECTOR", "Selector", "auto",
		"Providers:", "1. command", "history", "(limit 20)",
		"External tools:", "/bin/bash", "not found, needed for fzf selector",
		"Completion specs:", "(3 commands)",
		"Cache:", "2.0 KiB", "3 hours ago", "5 (2 with a compspec)", "1 older than 24h0m0s",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRender_Defaults(t *testing.T) {
	data := &Data{
		Version: "dev",
		Config:  config.FileInfo{Path: "/x/config.yml"},
	}
	out := Render(data)

	assert.Contains(t, out, "Not installed")
	assert.Contains(t, out, "bft setup")
	assert.Contains(t, out, "not found, using defaults")
	assert.Contains(t, out, "No provider enabled")
	assert.Contains(t, out, "Unavailable")
	assert.NotContains(t, out, "(dev,")
}

func TestRender_ConfigError(t *testing.T) {
	data := &Data{
		Config:        config.FileInfo{Path: "/x/config.yml", Exists: true, Error: "failed to load config: bad yaml"},
		RegistryFile:  "/r.yml",
		RegistryError: "no such file",
		Cache:         &cache.Info{Path: "/c"},
	}
	out := Render(data)
	assert.Contains(t, out, "bad yaml")
	assert.Contains(t, out, "no such file")
	assert.Contains(t, out, "Empty")
}

func TestRender_CacheSizes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
	}
	for _, tt := range tests {
		out := Render(&Data{Cache: &cache.Info{Path: "/c", Size: tt.size}})
		assert.Contains(t, out, tt.want)
	}
}
