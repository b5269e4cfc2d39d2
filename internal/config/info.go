package config

import (
	"os"
	"sort"
	"strings"
)

// FileInfo represents information about a configuration file
type FileInfo struct {
	Path   string
	Exists bool
	Loaded bool
	Error  string
}

// Info describes where the effective configuration came from.
type Info struct {
	File FileInfo
	// EnvOverrides maps config keys to the BFT_* variables setting them.
	EnvOverrides map[string]string
	Effective    *Config
}

// GetInfo loads the configuration at path and reports its sources. A
// config file that fails to load is reported, not returned as an error;
// Effective then holds the defaults with environment overrides.
func GetInfo(path string) *Info {
	info := &Info{
		File:         FileInfo{Path: path},
		EnvOverrides: make(map[string]string),
	}

	if _, err := os.Stat(path); err == nil {
		info.File.Exists = true
	}

	loader := New()
	cfg, err := loader.Load(path)
	if err != nil {
		info.File.Error = err.Error()
		// The environment is applied on every load, so a bad BFT_* value
		// fails this retry too.
		if cfg, err = loader.Load(""); err != nil {
			cfg = Default()
		}
	} else {
		info.File.Loaded = info.File.Exists
	}
	info.Effective = cfg

	known := configKeys()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		if key := EnvKey(name); known[key] {
			info.EnvOverrides[key] = name
		}
	}
	return info
}

// OverriddenKeys returns the keys set from the environment, sorted.
func (i *Info) OverriddenKeys() []string {
	keys := make([]string, 0, len(i.EnvOverrides))
	for k := range i.EnvOverrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func configKeys() map[string]bool {
	known := make(map[string]bool)
	k, err := defaults()
	if err != nil {
		return known
	}
	for _, key := range k.Keys() {
		known[strings.SplitN(key, ".", 2)[0]] = true
	}
	delete(known, "providers")
	return known
}
