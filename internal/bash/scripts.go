package bash

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/NikitaCOEUR/bft/internal/quoting"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var scripts = template.Must(
	template.New("bash").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{"shq": quoting.Quote}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// frameworkPaths lists the bash-completion entry points, most common first.
var frameworkPaths = []string{
	"/usr/share/bash-completion/bash_completion",
	"/etc/bash_completion",
	"/usr/local/share/bash-completion/bash_completion",
	"/usr/local/etc/profile.d/bash_completion.sh",
	"/opt/homebrew/etc/profile.d/bash_completion.sh",
}

// completionScriptPaths returns possible locations for bash completion scripts
func completionScriptPaths(command string) []string {
	return []string{
		filepath.Join("/usr/share/bash-completion/completions", command),
		filepath.Join("/usr/local/share/bash-completion/completions", command),
		filepath.Join("/etc/bash_completion.d", command),
		// Homebrew on macOS
		filepath.Join("/usr/local/etc/bash_completion.d", command),
		filepath.Join("/opt/homebrew/etc/bash_completion.d", command),
	}
}

// scriptData feeds the embedded templates.
type scriptData struct {
	Frameworks  []string
	ScriptPaths []string

	Command  string
	Function string
	Exec     string
	Words    []string
	CWord    int
	Line     string
	Point    int
	Cur      string
	Prev     string

	Flags []string
	Word  string
}

func render(name string, data scriptData) (string, error) {
	var buf bytes.Buffer
	if err := scripts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s script: %w", name, err)
	}
	return buf.String(), nil
}
