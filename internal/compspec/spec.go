// Package compspec describes how the word under the cursor is completed and
// where those descriptions come from.
package compspec

import (
	"strings"

	"github.com/NikitaCOEUR/bft/internal/quoting"
)

// Strategy is the completion strategy chosen by the resolver.
type Strategy int

const (
	// StrategyDefault completes filenames.
	StrategyDefault Strategy = iota
	// StrategyVariable completes shell variable names.
	StrategyVariable
	// StrategyCommand completes command names.
	StrategyCommand
	// StrategyRegistered uses a spec found in a registry.
	StrategyRegistered
)

func (s Strategy) String() string {
	switch s {
	case StrategyVariable:
		return "variable"
	case StrategyCommand:
		return "command"
	case StrategyRegistered:
		return "registered"
	default:
		return "default"
	}
}

// Options are the independent -o toggles of a compspec.
type Options struct {
	Filenames   bool `yaml:"filenames,omitempty" json:"filenames,omitempty"`
	NoQuote     bool `yaml:"noquote,omitempty" json:"noquote,omitempty"`
	NoSpace     bool `yaml:"nospace,omitempty" json:"nospace,omitempty"`
	BashDefault bool `yaml:"bashdefault,omitempty" json:"bashdefault,omitempty"`
	Default     bool `yaml:"default,omitempty" json:"default,omitempty"`
	Dirnames    bool `yaml:"dirnames,omitempty" json:"dirnames,omitempty"`
	PlusDirs    bool `yaml:"plusdirs,omitempty" json:"plusdirs,omitempty"`
	NoSort      bool `yaml:"nosort,omitempty" json:"nosort,omitempty"`
}

// optionNames lists -o names in the order bash prints them.
var optionNames = []string{"bashdefault", "default", "dirnames", "filenames", "noquote", "nosort", "nospace", "plusdirs"}

func (o *Options) field(name string) *bool {
	switch name {
	case "filenames":
		return &o.Filenames
	case "noquote":
		return &o.NoQuote
	case "nospace":
		return &o.NoSpace
	case "bashdefault":
		return &o.BashDefault
	case "default":
		return &o.Default
	case "dirnames":
		return &o.Dirnames
	case "plusdirs":
		return &o.PlusDirs
	case "nosort":
		return &o.NoSort
	}
	return nil
}

// Set enables the option called name. Unknown names are ignored and
// reported as false.
func (o *Options) Set(name string) bool {
	f := o.field(name)
	if f == nil {
		return false
	}
	*f = true
	return true
}

// Names returns the enabled option names.
func (o Options) Names() []string {
	var names []string
	for _, n := range optionNames {
		if *o.field(n) {
			names = append(names, n)
		}
	}
	return names
}

// Spec is a resolved completion description. Empty string fields are unset.
type Spec struct {
	// Name is the command the spec is registered for.
	Name        string   `yaml:"name" json:"name"`
	Function    string   `yaml:"function,omitempty" json:"function,omitempty"`
	Wordlist    string   `yaml:"wordlist,omitempty" json:"wordlist,omitempty"`
	GlobPattern string   `yaml:"glob,omitempty" json:"glob,omitempty"`
	Command     string   `yaml:"command,omitempty" json:"command,omitempty"`
	// Filter keeps the candidates matching a glob, or drops them when it
	// starts with !. This is the opposite of complete -X.
	Filter      string   `yaml:"filter,omitempty" json:"filter,omitempty"`
	Prefix      string   `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Suffix      string   `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	Actions     []string `yaml:"actions,omitempty" json:"actions,omitempty"`
	Options     Options  `yaml:"options,omitempty" json:"options,omitempty"`

	Strategy Strategy `yaml:"-" json:"-"`
}

// HasGenerator reports whether the spec names any candidate generator.
func (s *Spec) HasGenerator() bool {
	return s.Function != "" || s.Wordlist != "" || s.GlobPattern != "" || s.Command != "" || len(s.Actions) > 0
}

// TreatsAsFilenames reports whether candidates are paths that need quoting
// and directory marking.
func (s *Spec) TreatsAsFilenames() bool {
	return s.Options.Filenames || s.Options.Dirnames
}

// Clone returns a deep copy.
func (s *Spec) Clone() *Spec {
	c := *s
	c.Actions = append([]string(nil), s.Actions...)
	return &c
}

// String renders the spec as the complete builtin invocation that
// would define it.
func (s *Spec) String() string {
	parts := []string{"complete"}
	for _, n := range s.Options.Names() {
		parts = append(parts, "-o", n)
	}
	for _, a := range s.Actions {
		parts = append(parts, "-A", a)
	}
	add := func(flag, v string) {
		if v != "" {
			parts = append(parts, flag, quoting.Quote(v))
		}
	}
	add("-F", s.Function)
	add("-W", s.Wordlist)
	add("-G", s.GlobPattern)
	add("-C", s.Command)
	add("-X", invertFilter(s.Filter))
	add("-P", s.Prefix)
	add("-S", s.Suffix)
	if s.Name != "" {
		parts = append(parts, quoting.Quote(s.Name))
	}
	return strings.Join(parts, " ")
}

// Default returns the filename completion spec used when nothing else applies.
func Default(name string) *Spec {
	return &Spec{
		Name:     name,
		Options:  Options{Filenames: true, Default: true},
		Strategy: StrategyDefault,
	}
}
