package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of config validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) add(field, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate validates a config file: schema first, then the rules the
// schema cannot express.
func Validate(path string) (*ValidationResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}

	result, err := ValidateWithSchema(path, content)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return result, nil
	}

	loader := New()
	cfg, err := loader.Load(path)
	if err != nil {
		result.add("syntax", "Failed to parse config: %v", err)
		return result, nil
	}

	CheckConfig(cfg, result)
	return result, nil
}

// CheckConfig adds the semantic problems of cfg to result.
func CheckConfig(cfg *Config, result *ValidationResult) {
	seen := make(map[string]bool)
	for i, p := range cfg.Providers {
		field := fmt.Sprintf("providers/%d", i)
		if !lo.Contains(ProviderTypes, p.Type) {
			result.add(field, "Unknown provider type %q", p.Type)
		}
		if seen[p.Type] {
			result.add(field, "Provider %q is listed more than once", p.Type)
		}
		seen[p.Type] = true
		if p.Limit < 0 {
			result.add(field, "Limit must not be negative")
		}
	}

	if cfg.HasProvider(ProviderCobra) && len(cfg.CobraCommands) == 0 {
		result.add("cobra_commands", "The cobra provider is enabled but no command is listed")
	}
	if cfg.HasProvider(ProviderUrfave) && len(cfg.UrfaveCommands) == 0 {
		result.add("urfave_commands", "The urfave provider is enabled but no command is listed")
	}

	if !validHeight(cfg.SelectorHeight) {
		result.add("selector_height", "Height %q is neither a row count nor a percentage", cfg.SelectorHeight)
	}
	if cfg.Timeout <= 0 {
		result.add("timeout", "Timeout must be positive")
	}
	if cfg.CacheTTL < 0 {
		result.add("cache_ttl", "Cache TTL must not be negative")
	}
	if u := cfg.RegistryURL; u != "" && !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		result.add("registry_url", "Registry URL must use http or https")
	}
}

func validHeight(h string) bool {
	if h == "" {
		return true
	}
	n, err := strconv.Atoi(strings.TrimSuffix(h, "%"))
	if err != nil || n <= 0 {
		return false
	}
	return !strings.HasSuffix(h, "%") || n <= 100
}
