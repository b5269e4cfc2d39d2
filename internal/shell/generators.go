package shell

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/NikitaCOEUR/bft/internal/quoting"
)

const shellBash = "bash"

// DefaultKey is the readline key sequence bound to completion.
const DefaultKey = `\t`

// DefaultKeymaps are the readline keymaps the binding is installed in.
var DefaultKeymaps = []string{"emacs", "vi-insert"}

// InitOptions parameterizes the init script.
type InitOptions struct {
	// Binary is the command the hook runs, usually os.Executable.
	Binary string
	// Version is printed in the script header.
	Version string
	// Key is the readline key sequence for completion, DefaultKey when empty.
	Key string
	// NativeKey, when set, keeps bash's own completion on that key.
	NativeKey string
	// Keymaps lists the readline keymaps to bind, DefaultKeymaps when empty.
	Keymaps []string
	// ErrorLog receives the hook's stderr; discarded when empty.
	ErrorLog string
}

// CodeGenerator renders the shell code that hooks bft into a shell.
type CodeGenerator interface {
	// Generate returns the init script.
	Generate(opts InitOptions) (string, error)
	// Name returns the shell name.
	Name() string
}

// BashCodeGenerator generates the bash `bind -x` hook
type BashCodeGenerator struct {
	tmpl *template.Template
}

// Name returns the shell name for bash
func (b *BashCodeGenerator) Name() string {
	return shellBash
}

// Generate renders the bash init script.
func (b *BashCodeGenerator) Generate(opts InitOptions) (string, error) {
	if opts.Binary == "" {
		return "", fmt.Errorf("binary path is required")
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if len(opts.Keymaps) == 0 {
		opts.Keymaps = DefaultKeymaps
	}
	for _, k := range []string{opts.Key, opts.NativeKey} {
		if strings.ContainsAny(k, `'"`) {
			return "", fmt.Errorf("invalid key sequence %q", k)
		}
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, opts); err != nil {
		return "", fmt.Errorf("failed to render bash init script: %w", err)
	}
	return buf.String(), nil
}

// NewInitGenerator returns the generator for shell. Only bash is
// supported; completion relies on READLINE_LINE and bind -x.
func NewInitGenerator(shell string) (CodeGenerator, error) {
	switch shell {
	case "", shellBash:
		tmpl, err := template.New(shellBash).
			Funcs(sprig.TxtFuncMap()).
			Funcs(template.FuncMap{"shq": quoting.Quote}).
			Parse(bashInitTemplate)
		if err != nil {
			return nil, err
		}
		return &BashCodeGenerator{tmpl: tmpl}, nil
	}
	return nil, fmt.Errorf("unsupported shell %q (only bash is supported)", shell)
}
