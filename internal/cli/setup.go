package cli

import (
	"fmt"
	"io"

	"github.com/mitchellh/go-homedir"

	"github.com/NikitaCOEUR/bft/internal/setup"
)

// SetupParams holds parameters for the Setup function
type SetupParams struct {
	Uninstall bool
	// Home defaults to the user's home directory.
	Home   string
	Binary string
	Out    io.Writer
}

// Setup installs or removes the hook that loads bft in interactive bash.
func Setup(params SetupParams) error {
	out := writer(params.Out)

	home := params.Home
	if home == "" {
		var err error
		if home, err = homedir.Dir(); err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
	}
	binary := params.Binary
	if binary == "" {
		binary = executable()
	}

	installer := setup.NewInstaller(home, binary)

	var result *setup.Result
	var err error
	if params.Uninstall {
		result, err = installer.Uninstall()
	} else {
		result, err = installer.Install()
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, result.Message)
	if result.Updated && !params.Uninstall {
		_, _ = fmt.Fprintln(out, "\nTo activate in current shell, run:")
		_, _ = fmt.Fprintf(out, "  source %s\n", result.HookFile)
	}
	return nil
}
