// Package status provides status information collection and display for bft.
package status

import (
	"os/exec"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/NikitaCOEUR/bft/internal/cache"
	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/NikitaCOEUR/bft/internal/config"
	"github.com/NikitaCOEUR/bft/internal/setup"
	"github.com/NikitaCOEUR/bft/pkg/version"
)

// CacheFileName is the compspec cache file inside the cache directory.
const CacheFileName = "compspecs.json"

// Options tells CollectAll where to look.
type Options struct {
	ConfigPath string
	Home       string
	Binary     string
	// LookPath resolves tools; exec.LookPath when nil.
	LookPath func(string) (string, error)
}

// CollectAll gathers the status information. Problems with individual
// parts are reported in Data rather than returned.
func CollectAll(opts Options) *Data {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	info := config.GetInfo(opts.ConfigPath)
	cfg := info.Effective

	data := &Data{
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildTime: version.BuildTime,
		Binary:    opts.Binary,
		Config:    info.File,
		Effective: cfg,
		EnvOverrides: lo.Map(info.OverriddenKeys(), func(key string, _ int) string {
			return info.EnvOverrides[key]
		}),
		CacheTTL: cfg.CacheTTL,
	}

	collectInstallInfo(data, opts)
	data.Tools = collectTools(cfg, lookPath)
	collectRegistryInfo(data, cfg)
	collectCacheInfo(data, cfg)

	return data
}

func collectInstallInfo(data *Data, opts Options) {
	if opts.Home == "" {
		return
	}
	inst := setup.NewInstaller(opts.Home, opts.Binary)
	data.RCFile = inst.RCFile()
	data.HookInstalled = inst.IsInstalled()
	if data.HookInstalled {
		data.HookFile = inst.Strategy().HookFile()
	}
}

func collectTools(cfg *config.Config, lookPath func(string) (string, error)) []ToolInfo {
	tools := []ToolInfo{
		{Name: "bash", Purpose: "compspecs and completion functions"},
		{Name: "fzf", Purpose: "fzf selector"},
		{Name: cfg.CarapaceBinary, Purpose: "carapace provider"},
	}
	for _, c := range cfg.CobraCommands {
		tools = append(tools, ToolInfo{Name: c, Purpose: "cobra provider"})
	}
	for _, c := range cfg.UrfaveCommands {
		tools = append(tools, ToolInfo{Name: c, Purpose: "urfave provider"})
	}

	for i := range tools {
		if path, err := lookPath(tools[i].Name); err == nil {
			tools[i].Path = path
			tools[i].Found = true
		}
	}
	return tools
}

func collectRegistryInfo(data *Data, cfg *config.Config) {
	data.RegistryURL = cfg.RegistryURL
	if cfg.RegistryFile == "" {
		return
	}
	data.RegistryFile = cfg.RegistryFile
	reg, err := compspec.LoadRegistryFile(cfg.RegistryFile)
	if err != nil {
		data.RegistryError = err.Error()
		return
	}
	data.RegistryCommands = reg.Len()
}

func collectCacheInfo(data *Data, cfg *config.Config) {
	dir, err := cfg.CachePath()
	if err != nil {
		return
	}
	info, err := cache.GetCacheInfo(filepath.Join(dir, CacheFileName), cfg.CacheTTL)
	if err != nil {
		return
	}
	data.Cache = info
}
