package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NikitaCOEUR/bft/internal/cache"
	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/NikitaCOEUR/bft/internal/config"
	"github.com/NikitaCOEUR/bft/internal/derrors"
	"github.com/NikitaCOEUR/bft/internal/logger"
	"github.com/NikitaCOEUR/bft/internal/status"
)

// CleanParams holds parameters for the Clean function
type CleanParams struct {
	ConfigPath string
	LogLevel   string
	// Commands limits the cleanup to these entries; everything is removed
	// when empty.
	Commands []string
	Out      io.Writer
}

// Clean removes cached compspec lookups and the downloaded registry.
func Clean(params CleanParams) error {
	out := writer(params.Out)

	cfg, err := config.New().Load(params.ConfigPath)
	if err != nil {
		return derrors.NewConfigurationError(params.ConfigPath, "failed to load config", err)
	}
	log := logger.New(firstNonEmpty(params.LogLevel, cfg.LogLevel), nil)

	cacheDir, err := cfg.CachePath()
	if err != nil {
		return err
	}
	cachePath := filepath.Join(cacheDir, status.CacheFileName)

	c, err := cache.New(cachePath)
	if err != nil {
		return derrors.NewCacheError(cachePath, "failed to initialize cache", err)
	}

	if len(params.Commands) > 0 {
		for _, command := range params.Commands {
			if err := c.Delete(command); err != nil {
				return derrors.NewCacheError(cachePath, "failed to delete entry", err)
			}
			log.Info().Str("command", command).Msg("Cache entry removed")
			_, _ = fmt.Fprintf(out, "✓ Cache entry removed for %s\n", command)
		}
		return nil
	}

	if err := c.Clear(); err != nil {
		return derrors.NewCacheError(cachePath, "failed to clear cache", err)
	}
	log.Info().Str("path", cachePath).Msg("All cache entries cleared")

	if cfg.RegistryURL != "" {
		path := compspec.RemoteRegistryPath(cacheDir, cfg.RegistryURL)
		for _, p := range []string{path, path + ".sha256"} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return derrors.NewCacheError(p, "failed to remove registry copy", err)
			}
		}
	}

	_, _ = fmt.Fprintln(out, "✓ All cache entries cleared")
	return nil
}
