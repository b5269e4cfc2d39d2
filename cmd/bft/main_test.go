package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), append([]string{"bft"}, args...))
	return out.String(), err
}

func TestApp_Quote(t *testing.T) {
	out, err := run(t, "quote", "a b", "plain")
	require.NoError(t, err)
	assert.Equal(t, "'a b'\nplain\n", out)

	out, err = run(t, "unquote", "'a b'")
	require.NoError(t, err)
	assert.Equal(t, "a b\n", out)
}

func TestApp_Init(t *testing.T) {
	out, err := run(t, "init", "bash", "--key", `\C-t`, "--keymap", "emacs")
	require.NoError(t, err)
	assert.Contains(t, out, `bind -m emacs -x '"\C-t": __bft_complete'`)
	assert.NotContains(t, out, "vi-insert")

	_, err = run(t, "init", "zsh")
	assert.Error(t, err)
}

func TestApp_InitScriptFlag(t *testing.T) {
	out, err := run(t, "--init-script")
	require.NoError(t, err)
	assert.Contains(t, out, "__bft_complete")
}

func TestApp_CompleteDryRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"providers:\n  - type: envvar\ncache_dir: "+dir+"\nlog_file: "+filepath.Join(dir, "bft.log")+"\n"), 0644))
	t.Setenv("QWXZ_APP_TEST", "1")

	out, err := run(t, "--config", cfgPath, "complete", "--dry-run", "echo $QWXZ_APP")
	require.NoError(t, err)
	assert.Equal(t, "$QWXZ_APP_TEST\n", out)
}

func TestApp_Schema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	out, err := run(t, "schema", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)
}

func TestApp_ValidateUsesConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("selector: dmenu\n"), 0644))

	t.Setenv("BFT_CONFIG", path)
	out, err := run(t, "validate")
	assert.Error(t, err)
	assert.Contains(t, out, path)
}

func TestCompletionBashScript(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := newApp(os.Stdout).Run(context.Background(), []string{"bft", "completion", "bash"})

	_ = w.Close()
	os.Stdout = oldStdout
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "_bft")
}
