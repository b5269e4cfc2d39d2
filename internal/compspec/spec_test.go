package compspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "default", StrategyDefault.String())
	assert.Equal(t, "variable", StrategyVariable.String())
	assert.Equal(t, "command", StrategyCommand.String())
	assert.Equal(t, "registered", StrategyRegistered.String())
}

func TestOptions_SetAndNames(t *testing.T) {
	var o Options
	assert.True(t, o.Set("nospace"))
	assert.True(t, o.Set("filenames"))
	assert.True(t, o.Set("bashdefault"))
	assert.False(t, o.Set("unknown"))

	assert.True(t, o.NoSpace)
	assert.True(t, o.Filenames)
	assert.Equal(t, []string{"bashdefault", "filenames", "nospace"}, o.Names())
}

func TestSpec_HasGenerator(t *testing.T) {
	assert.False(t, (&Spec{Name: "x"}).HasGenerator())
	assert.False(t, (&Spec{Name: "x", Filter: "*.o", Options: Options{NoSpace: true}}).HasGenerator())
	assert.True(t, (&Spec{Wordlist: "a b"}).HasGenerator())
	assert.True(t, (&Spec{Function: "_f"}).HasGenerator())
	assert.True(t, (&Spec{GlobPattern: "*"}).HasGenerator())
	assert.True(t, (&Spec{Command: "ls"}).HasGenerator())
	assert.True(t, (&Spec{Actions: []string{"file"}}).HasGenerator())
}

func TestSpec_TreatsAsFilenames(t *testing.T) {
	assert.True(t, Default("x").TreatsAsFilenames())
	assert.True(t, (&Spec{Options: Options{Dirnames: true}}).TreatsAsFilenames())
	assert.False(t, (&Spec{Wordlist: "a"}).TreatsAsFilenames())
}

func TestSpec_Clone(t *testing.T) {
	orig := &Spec{Name: "x", Actions: []string{"file"}}
	c := orig.Clone()
	c.Actions[0] = "directory"
	c.Name = "y"

	assert.Equal(t, "file", orig.Actions[0])
	assert.Equal(t, "x", orig.Name)
}

func TestSpec_String(t *testing.T) {
	spec := &Spec{
		Name:     "svc",
		Function: "_svc",
		Wordlist: "start stop",
		Actions:  []string{"file"},
		Options:  Options{NoSpace: true, Default: true},
	}
	assert.Equal(t, "complete -o default -o nospace -A file -F _svc -W 'start stop' svc", spec.String())
}

func TestSpec_StringRoundTrip(t *testing.T) {
	orig := &Spec{
		Name:        "unzip",
		Filter:      "!*.@(zip|ZIP)",
		GlobPattern: "*.zip",
		Prefix:      "it's",
		Options:     Options{Filenames: true},
		Strategy:    StrategyRegistered,
	}

	parsed, err := ParseComplete(orig.String())
	require.NoError(t, err)
	assert.Equal(t, orig, parsed)
}

func TestDefault(t *testing.T) {
	spec := Default("cat")
	assert.Equal(t, "cat", spec.Name)
	assert.Equal(t, StrategyDefault, spec.Strategy)
	assert.True(t, spec.Options.Filenames)
	assert.True(t, spec.Options.Default)
	assert.False(t, spec.HasGenerator())
}
