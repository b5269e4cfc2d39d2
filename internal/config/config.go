// Package config handles loading and parsing of bft configuration files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/go-homedir"
)

//go:embed defaults.yml
var defaultsYAML []byte

// EnvPrefix prefixes every environment override, e.g. BFT_PROMPT.
const EnvPrefix = "BFT_"

// SupportedConfigNames contains supported configuration file names (in order of preference)
var SupportedConfigNames = []string{
	"config.yml",
	"config.yaml",
	"config.toml",
	"config.json",
}

// Provider types.
const (
	ProviderCommand  = "command"
	ProviderBash     = "bash"
	ProviderHistory  = "history"
	ProviderCarapace = "carapace"
	ProviderEnvVar   = "envvar"
	ProviderCobra    = "cobra"
	ProviderUrfave   = "urfave"
)

// ProviderTypes lists the accepted provider types.
var ProviderTypes = []string{
	ProviderCommand, ProviderBash, ProviderHistory, ProviderCarapace,
	ProviderEnvVar, ProviderCobra, ProviderUrfave,
}

// Provider enables one candidate source.
type Provider struct {
	Type  string `koanf:"type" jsonschema:"required,enum=command,enum=bash,enum=history,enum=carapace,enum=envvar,enum=cobra,enum=urfave,description=Candidate source"`
	Limit int    `koanf:"limit" jsonschema:"minimum=0,description=Maximum number of candidates (0 means no limit)"`
}

// Config represents a bft configuration
type Config struct {
	Selector             string        `koanf:"selector" jsonschema:"enum=auto,enum=fzf,enum=builtin,enum=none,default=auto,description=Interactive selector used when several candidates remain"`
	SelectorHeight       string        `koanf:"selector_height" jsonschema:"pattern=^[0-9]+%?$,default=40%,description=Selector height in rows or percent of the terminal"`
	Prompt               string        `koanf:"prompt" jsonschema:"description=Selector prompt"`
	AutoCommonPrefix     bool          `koanf:"auto_common_prefix" jsonschema:"default=true,description=Insert the common prefix of the candidates instead of opening the selector"`
	AutoCommonPrefixPart bool          `koanf:"auto_common_prefix_part" jsonschema:"default=false,description=Also insert a common prefix shared by non-identical candidates"`
	NoEmptyCmdCompletion bool          `koanf:"no_empty_cmd_completion" jsonschema:"default=false,description=Do not complete command names on an empty line"`
	Providers            []Provider    `koanf:"providers" jsonschema:"description=Candidate sources in merge order"`
	CobraCommands        []string      `koanf:"cobra_commands" jsonschema:"description=Commands completed through the cobra __complete protocol"`
	UrfaveCommands       []string      `koanf:"urfave_commands" jsonschema:"description=Commands completed through urfave/cli --generate-shell-completion"`
	CarapaceBinary       string        `koanf:"carapace_binary" jsonschema:"default=carapace,description=Name or path of the carapace binary"`
	Timeout              time.Duration `koanf:"timeout" jsonschema:"type=string,default=3s,description=Time budget for all providers"`
	RegistryFile         string        `koanf:"registry_file" jsonschema:"description=YAML file of static completion specs"`
	RegistryURL          string        `koanf:"registry_url" jsonschema:"description=HTTPS URL of a shared completion spec registry"`
	CacheDir             string        `koanf:"cache_dir" jsonschema:"description=Directory for cached lookups (defaults to the user cache dir)"`
	CacheTTL             time.Duration `koanf:"cache_ttl" jsonschema:"type=string,default=24h,description=How long cached lookups are trusted"`
	LogLevel             string        `koanf:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=warn,description=Log level"`
	LogFile              string        `koanf:"log_file" jsonschema:"description=Log destination (stderr when empty)"`
}

// HasProvider reports whether a provider of the given type is enabled.
func (c *Config) HasProvider(kind string) bool {
	for _, p := range c.Providers {
		if p.Type == kind {
			return true
		}
	}
	return false
}

// listKeys are split on whitespace or commas when set from the environment.
var listKeys = map[string]bool{
	"cobra_commands":  true,
	"urfave_commands": true,
}

// cachedFile stores a parsed config file with its modification time and size
type cachedFile struct {
	k       *koanf.Koanf
	modTime time.Time
	size    int64
}

// Loader handles loading and parsing configuration files
type Loader struct {
	mu          sync.Mutex
	parsedCache map[string]*cachedFile
}

// New creates a new config loader
func New() *Loader {
	return &Loader{
		parsedCache: make(map[string]*cachedFile),
	}
}

// Load merges the embedded defaults, the file at path (skipped when path
// is empty or missing) and BFT_* environment variables, in that order.
func (l *Loader) Load(path string) (*Config, error) {
	k, err := defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			fk, err := l.loadFile(path)
			if err != nil {
				return nil, err
			}
			if err := k.Merge(fk); err != nil {
				return nil, fmt.Errorf("failed to merge config: %w", err)
			}
		}
	}

	if err := k.Load(envProvider(configKeys()), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration built from the embedded defaults only.
func Default() *Config {
	k, err := defaults()
	if err != nil {
		panic(err)
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Sample returns a starter YAML file holding the defaults.
func Sample() []byte {
	header := "# bft configuration\n# Every key except providers can be overridden with BFT_<KEY>.\n\n"
	return append([]byte(header), defaultsYAML...)
}

func defaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	return k, nil
}

// envProvider reads BFT_* variables naming a known key. The providers
// list has no environment form.
func envProvider(known map[string]bool) *env.Env {
	return env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		name := EnvKey(key)
		if !known[name] {
			return "", nil
		}
		if listKeys[name] {
			return name, strings.FieldsFunc(value, func(r rune) bool {
				return r == ',' || r == ' ' || r == '\t'
			})
		}
		return name, value
	})
}

// EnvKey maps an environment variable name to its config key.
func EnvKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
}

// loadFile parses a config file, reusing the previous result while the
// file's modtime and size are unchanged.
func (l *Loader) loadFile(path string) (*koanf.Koanf, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fileInfo, statErr := os.Stat(path)
	if cached, exists := l.parsedCache[path]; exists && statErr == nil {
		if !fileInfo.ModTime().After(cached.modTime) && fileInfo.Size() == cached.size {
			return cached.k, nil
		}
		delete(l.parsedCache, path)
	}

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if statErr == nil {
		l.parsedCache[path] = &cachedFile{
			k:       k,
			modTime: fileInfo.ModTime(),
			size:    fileInfo.Size(),
		}
	}
	return k, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	}
	return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
}

// Dir returns $XDG_CONFIG_HOME/bft, or ~/.config/bft.
func Dir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "bft"), nil
}

// DefaultPath returns the first existing config file in Dir, or the
// preferred name when none exists.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return filepath.Join(dir, SupportedConfigNames[0]), nil
}

// CachePath returns the directory for cached data: cfg.CacheDir when set,
// otherwise the user cache dir.
func (c *Config) CachePath() (string, error) {
	if c.CacheDir != "" {
		return homedir.Expand(c.CacheDir)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(dir, "bft"), nil
}
