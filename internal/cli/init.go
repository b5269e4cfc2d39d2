package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/bft/internal/shell"
)

// InitParams holds parameters for the Init function
type InitParams struct {
	Shell     string
	Binary    string
	Version   string
	Key       string
	NativeKey string
	Keymaps   []string
	ErrorLog  string
	Out       io.Writer
}

// Init prints the script that binds bft to the completion key.
func Init(params InitParams) error {
	gen, err := shell.NewInitGenerator(params.Shell)
	if err != nil {
		return err
	}

	binary := params.Binary
	if binary == "" {
		binary = executable()
	}

	script, err := gen.Generate(shell.InitOptions{
		Binary:    binary,
		Version:   params.Version,
		Key:       params.Key,
		NativeKey: params.NativeKey,
		Keymaps:   params.Keymaps,
		ErrorLog:  params.ErrorLog,
	})
	if err != nil {
		return fmt.Errorf("failed to generate %s init script: %w", gen.Name(), err)
	}

	_, err = io.WriteString(writer(params.Out), script)
	return err
}

// executable returns the path of the running binary, "bft" when unknown.
func executable() string {
	exe, err := os.Executable()
	if err != nil {
		return "bft"
	}
	return exe
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
