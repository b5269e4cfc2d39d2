package shell

import _ "embed"

// Embedded init script templates, one per supported shell.
//
//go:embed templates/init.bash.tmpl
var bashInitTemplate string
