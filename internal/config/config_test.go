package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "auto", cfg.Selector)
	assert.Equal(t, "40%", cfg.SelectorHeight)
	assert.Equal(t, "> ", cfg.Prompt)
	assert.True(t, cfg.AutoCommonPrefix)
	assert.False(t, cfg.AutoCommonPrefixPart)
	assert.False(t, cfg.NoEmptyCmdCompletion)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "carapace", cfg.CarapaceBinary)
	assert.Equal(t, []Provider{
		{Type: ProviderCommand},
		{Type: ProviderBash},
		{Type: ProviderHistory, Limit: 20},
		{Type: ProviderCarapace},
		{Type: ProviderEnvVar},
	}, cfg.Providers)
}

func TestLoader_LoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
selector: fzf
prompt: "bft> "
auto_common_prefix_part: true
providers:
  - type: history
    limit: 5
  - type: cobra
cobra_commands: [kubectl, helm]
timeout: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := New().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fzf", cfg.Selector)
	assert.Equal(t, "bft> ", cfg.Prompt)
	assert.True(t, cfg.AutoCommonPrefixPart)
	assert.True(t, cfg.AutoCommonPrefix, "unset keys keep their default")
	assert.Equal(t, []Provider{{Type: ProviderHistory, Limit: 5}, {Type: ProviderCobra}}, cfg.Providers)
	assert.Equal(t, []string{"kubectl", "helm"}, cfg.CobraCommands)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
}

func TestLoader_LoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
selector = "builtin"
selector_height = "10"

[[providers]]
type = "bash"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "builtin", cfg.Selector)
	assert.Equal(t, "10", cfg.SelectorHeight)
	assert.Equal(t, []Provider{{Type: ProviderBash}}, cfg.Providers)
}

func TestLoader_LoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"selector": "none", "cache_ttl": "1h"}`), 0644))

	cfg, err := New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Selector)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := New().Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoader_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("selector=fzf"), 0644))

	_, err := New().Load(path)
	assert.Error(t, err)
}

func TestLoader_InvalidSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("selector: [unclosed"), 0644))

	_, err := New().Load(path)
	assert.Error(t, err)
}

func TestLoader_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: 'file> '\nselector: fzf\n"), 0644))

	t.Setenv("BFT_PROMPT", "env> ")
	t.Setenv("BFT_AUTO_COMMON_PREFIX", "false")
	t.Setenv("BFT_SELECTOR_HEIGHT", "15")
	t.Setenv("BFT_COBRA_COMMANDS", "kubectl, helm  gh")
	t.Setenv("BFT_TIMEOUT", "2s")
	t.Setenv("BFT_COMPSPECS", "complete -F _git git")
	t.Setenv("BFT_PROVIDERS", "bash")

	cfg, err := New().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env> ", cfg.Prompt, "environment wins over the file")
	assert.Equal(t, "fzf", cfg.Selector)
	assert.False(t, cfg.AutoCommonPrefix)
	assert.Equal(t, "15", cfg.SelectorHeight)
	assert.Equal(t, []string{"kubectl", "helm", "gh"}, cfg.CobraCommands)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Len(t, cfg.Providers, 5, "providers cannot be set from the environment")
}

func TestLoader_CacheInvalidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("selector: fzf\n"), 0644))

	l := New()
	cfg, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fzf", cfg.Selector)
	assert.Len(t, l.parsedCache, 1)

	require.NoError(t, os.WriteFile(path, []byte("selector: builtin\n"), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	cfg, err = l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "builtin", cfg.Selector)
}

func TestConfig_HasProvider(t *testing.T) {
	cfg := &Config{Providers: []Provider{{Type: ProviderBash}}}
	assert.True(t, cfg.HasProvider(ProviderBash))
	assert.False(t, cfg.HasProvider(ProviderHistory))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "auto_common_prefix", EnvKey("BFT_AUTO_COMMON_PREFIX"))
	assert.Equal(t, "prompt", EnvKey("BFT_PROMPT"))
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "bft"), dir)
}

func TestDefaultPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "bft", "config.yml"), path)

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "bft"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "bft", "config.toml"), nil, 0644))

	path, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "bft", "config.toml"), path)
}

func TestConfig_CachePath(t *testing.T) {
	dir := t.TempDir()
	path, err := (&Config{CacheDir: dir}).CachePath()
	require.NoError(t, err)
	assert.Equal(t, dir, path)

	t.Setenv("XDG_CACHE_HOME", dir)
	path, err = (&Config{}).CachePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bft"), path)
}

func TestSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, Sample(), 0644))

	result, err := Validate(path)
	require.NoError(t, err)
	assert.True(t, result.Valid, "%+v", result.Errors)

	cfg, err := New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
