package selector

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/bft/internal/completion"
	"github.com/NikitaCOEUR/bft/internal/derrors"
)

type fakeRun struct {
	output []byte
	err    error
	args   []string
	input  string
}

func (f *fakeRun) run(_ context.Context, _ string, args []string, stdin io.Reader) ([]byte, error) {
	f.args = args
	b, _ := io.ReadAll(stdin)
	f.input = string(b)
	return f.output, f.err
}

func TestFzf_Select(t *testing.T) {
	sugs := []completion.Suggestion{
		{Value: "checkout", Description: "Switch branches"},
		{Value: "cherry-pick"},
	}
	fake := &fakeRun{output: []byte("1\tcherry-pick\n")}
	f := NewFzf("fzf")
	f.run = fake.run

	got, err := f.Select(context.Background(), sugs, Options{Prompt: "> ", Height: "40%", Query: "ch", Header: "git ch"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cherry-pick", got.Value)

	assert.Equal(t, "0\tcheckout\tSwitch branches\n1\tcherry-pick\n", fake.input)
	assert.Subset(t, fake.args, []string{"--height", "40%", "--prompt", "> ", "--query", "ch", "--header", "git ch"})
}

func TestFzf_Cancelled(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	// A real *exec.ExitError is needed for exit code handling.
	exitErr := exec.Command("sh", "-c", "exit 130").Run()
	require.Error(t, exitErr)

	f := NewFzf("fzf")
	f.run = (&fakeRun{err: exitErr}).run
	got, err := f.Select(context.Background(), items("a", "b"), Options{})
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFzf_Failure(t *testing.T) {
	f := NewFzf("fzf")
	f.run = (&fakeRun{err: errors.New("exec: not found")}).run
	_, err := f.Select(context.Background(), items("a", "b"), Options{})

	var selErr *derrors.SelectorError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, KindFzf, selErr.Selector)
}

func TestFzf_BadOutput(t *testing.T) {
	f := NewFzf("fzf")
	f.run = (&fakeRun{output: []byte("7\tzzz\n")}).run
	_, err := f.Select(context.Background(), items("a"), Options{})
	assert.Error(t, err)
}

func TestFzf_EmptyItems(t *testing.T) {
	fake := &fakeRun{}
	f := NewFzf("fzf")
	f.run = fake.run
	got, err := f.Select(context.Background(), nil, Options{})
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, fake.args, "fzf is not started")
}

func TestFzf_ScriptBinary(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	script := filepath.Join(t.TempDir(), "fzf")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsed -n 3p\n"), 0755))

	got, err := NewFzf(script).Select(context.Background(), items("one", "two", "three"), Options{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "three", got.Value)
}

func TestFzfInput_StripsFraming(t *testing.T) {
	in := fzfInput([]completion.Suggestion{{Value: "a\tb", Description: "line\nbreak"}})
	assert.Equal(t, "0\ta b\tline break\n", in)
}
