package compspec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry answers which compspec is registered for a command.
// A nil spec with a nil error means no record exists.
type Registry interface {
	Lookup(ctx context.Context, command string) (*Spec, error)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(ctx context.Context, command string) (*Spec, error)

// Lookup implements Registry.
func (f RegistryFunc) Lookup(ctx context.Context, command string) (*Spec, error) {
	return f(ctx, command)
}

// Chain queries registries in order and returns the first record found.
// Errors are only reported when no registry had a record.
type Chain []Registry

// Lookup implements Registry.
func (c Chain) Lookup(ctx context.Context, command string) (*Spec, error) {
	var errs []error
	for _, r := range c {
		if r == nil {
			continue
		}
		spec, err := r.Lookup(ctx, command)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if spec != nil {
			return spec, nil
		}
	}
	return nil, errors.Join(errs...)
}

// StaticRegistry is an immutable in-memory table of specs.
type StaticRegistry struct {
	specs map[string]*Spec
}

// NewStaticRegistry builds a registry from specs keyed by their Name.
// Later specs replace earlier ones with the same name.
func NewStaticRegistry(specs ...*Spec) *StaticRegistry {
	r := &StaticRegistry{specs: make(map[string]*Spec, len(specs))}
	for _, s := range specs {
		if s == nil || s.Name == "" {
			continue
		}
		c := s.Clone()
		c.Strategy = StrategyRegistered
		r.specs[s.Name] = c
	}
	return r
}

// Lookup implements Registry. The returned spec is a copy.
func (r *StaticRegistry) Lookup(_ context.Context, command string) (*Spec, error) {
	s, ok := r.specs[command]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

// Len returns the number of registered commands.
func (r *StaticRegistry) Len() int {
	return len(r.specs)
}

// Names returns the registered command names, sorted.
func (r *StaticRegistry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RegistryFile is the YAML format of a compspec registry file.
//
//	version: v1
//	specs:
//	  - name: deploy
//	    wordlist: "staging production"
//	complete:
//	  - complete -o nospace -F _make make
type RegistryFile struct {
	Version     string   `yaml:"version"`
	Description string   `yaml:"description,omitempty"`
	Specs       []Spec   `yaml:"specs,omitempty"`
	Complete    []string `yaml:"complete,omitempty"`
}

// ParseRegistry parses a YAML registry document.
func ParseRegistry(data []byte) (*StaticRegistry, error) {
	var file RegistryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	specs := make([]*Spec, 0, len(file.Specs)+len(file.Complete))
	for i := range file.Specs {
		specs = append(specs, &file.Specs[i])
	}
	for _, line := range file.Complete {
		spec, err := ParseComplete(line)
		if err != nil {
			return nil, err
		}
		if spec != nil {
			specs = append(specs, spec)
		}
	}
	return NewStaticRegistry(specs...), nil
}

// ParseCompleteList builds a registry from `complete -p` output listing
// many definitions, one per line. Unparseable lines are skipped.
func ParseCompleteList(output string) *StaticRegistry {
	var specs []*Spec
	for _, line := range splitLines(output) {
		spec, err := ParseComplete(line)
		if err != nil || spec == nil {
			continue
		}
		specs = append(specs, spec)
	}
	return NewStaticRegistry(specs...)
}

// LoadRegistryFile reads a YAML registry from disk.
func LoadRegistryFile(path string) (*StaticRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}
	return ParseRegistry(data)
}
