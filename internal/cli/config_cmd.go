package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/shlex"

	"github.com/NikitaCOEUR/bft/internal/config"
)

// ConfigInit writes a starter config file to configPath, the user config
// path when empty. An existing file is kept unless force is set.
func ConfigInit(configPath string, force bool, w io.Writer) (string, error) {
	out := writer(w)

	if configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return "", err
		}
		configPath = path
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return configPath, fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, config.Sample(), 0644); err != nil {
		return "", fmt.Errorf("failed to create config file: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Created new config: %s\n", configPath)
	return configPath, nil
}

// ConfigEdit opens the config file in the user's editor, creating it
// first when missing.
func ConfigEdit(configPath string, w io.Writer) error {
	out := writer(w)

	if configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = path
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if _, err := ConfigInit(configPath, false, out); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(out, "Opening config: %s\n", configPath)
	}

	editor, err := findEditor()
	if err != nil {
		return err
	}

	cmd := exec.Command(editor[0], append(editor[1:], configPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// findEditor returns $VISUAL or $EDITOR split into words, or the first
// common editor on PATH.
func findEditor() ([]string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		value := os.Getenv(env)
		if value == "" {
			continue
		}
		words, err := shlex.Split(value)
		if err != nil {
			return nil, fmt.Errorf("invalid $%s: %w", env, err)
		}
		if len(words) > 0 {
			return words, nil
		}
	}

	for _, e := range []string{"nano", "vim", "vi"} {
		if _, err := exec.LookPath(e); err == nil {
			return []string{e}, nil
		}
	}
	return nil, fmt.Errorf("no editor found. Set $EDITOR or $VISUAL environment variable")
}
