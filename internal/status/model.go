package status

import (
	"time"

	"github.com/NikitaCOEUR/bft/internal/cache"
	"github.com/NikitaCOEUR/bft/internal/config"
)

// Data contains all the information to display in status
type Data struct {
	// Header
	Version   string
	GitCommit string
	BuildTime string

	// System & Installation
	Binary        string
	HookInstalled bool
	RCFile        string
	HookFile      string

	// Configuration
	Config       config.FileInfo
	EnvOverrides []string // BFT_* variable names in effect
	Effective    *config.Config

	// External tools
	Tools []ToolInfo

	// Compspec sources
	RegistryFile     string
	RegistryCommands int
	RegistryError    string
	RegistryURL      string

	// Cache
	Cache    *cache.Info
	CacheTTL time.Duration
}

// ToolInfo describes an external program bft can use
type ToolInfo struct {
	Name    string
	Path    string
	Found   bool
	Purpose string
}
