package cli

import (
	"fmt"
	"io"

	"github.com/mitchellh/go-homedir"

	"github.com/NikitaCOEUR/bft/internal/status"
)

// StatusParams holds parameters for the Status function
type StatusParams struct {
	ConfigPath string
	Out        io.Writer
}

// Status displays the installation, configuration and cache state.
func Status(params StatusParams) error {
	home, _ := homedir.Dir()

	data := status.CollectAll(status.Options{
		ConfigPath: params.ConfigPath,
		Home:       home,
		Binary:     executable(),
	})

	_, err := fmt.Fprintln(writer(params.Out), status.Render(data))
	return err
}
