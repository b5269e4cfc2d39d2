package compspec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRegistry = `version: v1
description: test registry
specs:
  - name: deploy
    wordlist: "staging production"
    options:
      nospace: true
complete:
  - complete -F _make make
`

func TestStaticRegistry(t *testing.T) {
	reg := NewStaticRegistry(
		&Spec{Name: "a", Wordlist: "x"},
		nil,
		&Spec{Wordlist: "nameless"},
		&Spec{Name: "a", Wordlist: "y"},
	)

	assert.Equal(t, 1, reg.Len())

	spec, err := reg.Lookup(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.Equal(t, "y", spec.Wordlist)
	assert.Equal(t, StrategyRegistered, spec.Strategy)

	spec, err = reg.Lookup(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, spec)
}

func TestChain(t *testing.T) {
	failing := RegistryFunc(func(context.Context, string) (*Spec, error) {
		return nil, errors.New("boom")
	})
	first := NewStaticRegistry(&Spec{Name: "a", Wordlist: "first"})
	second := NewStaticRegistry(&Spec{Name: "a", Wordlist: "second"}, &Spec{Name: "b", Wordlist: "b"})

	chain := Chain{failing, nil, first, second}

	spec, err := chain.Lookup(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "first", spec.Wordlist)

	spec, err = chain.Lookup(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "b", spec.Wordlist)

	spec, err = chain.Lookup(context.Background(), "c")
	assert.Error(t, err)
	assert.Nil(t, spec)

	spec, err = Chain{first}.Lookup(context.Background(), "c")
	assert.NoError(t, err)
	assert.Nil(t, spec)
}

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(sampleRegistry))
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy", "make"}, reg.Names())

	spec, err := reg.Lookup(context.Background(), "deploy")
	require.NoError(t, err)
	assert.Equal(t, "staging production", spec.Wordlist)
	assert.True(t, spec.Options.NoSpace)

	spec, err = reg.Lookup(context.Background(), "make")
	require.NoError(t, err)
	assert.Equal(t, "_make", spec.Function)
}

func TestParseRegistry_Invalid(t *testing.T) {
	_, err := ParseRegistry([]byte("specs: [unclosed"))
	assert.Error(t, err)

	_, err = ParseRegistry([]byte("complete:\n  - \"complete -W 'broken\"\n"))
	assert.Error(t, err)
}

func TestLoadRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRegistry), 0644))

	reg, err := LoadRegistryFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	_, err = LoadRegistryFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
