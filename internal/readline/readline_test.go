package readline

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuneOffset(t *testing.T) {
	tests := []struct {
		line  string
		point int
		want  int
	}{
		{"ls", 2, 2},
		{"ls", 0, 0},
		{"ls", -3, 0},
		{"ls", 10, 2},
		{"ls 中文", 9, 5},
		{"ls 中文", 6, 4},
		{"ls 中文", 7, 4},
		{"é", 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RuneOffset(tt.line, tt.point), "%q at %d", tt.line, tt.point)
	}
}

func TestByteOffset(t *testing.T) {
	assert.Equal(t, 0, ByteOffset("abc", 0))
	assert.Equal(t, 2, ByteOffset("abc", 2))
	assert.Equal(t, 3, ByteOffset("abc", 9))
	assert.Equal(t, 6, ByteOffset("ls 中文", 4))
	assert.Equal(t, 9, ByteOffset("ls 中文", 5))
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{LineVar: "git 中", PointVar: "7"}
	s := FromEnv(func(k string) string { return env[k] })
	assert.Equal(t, State{Line: "git 中", Cursor: 5}, s)

	env = map[string]string{LineVar: "ls -l"}
	s = FromEnv(func(k string) string { return env[k] })
	assert.Equal(t, 5, s.Cursor, "missing point means end of line")
}

func TestFromArgs(t *testing.T) {
	s, err := FromArgs([]string{"git ch"})
	require.NoError(t, err)
	assert.Equal(t, State{Line: "git ch", Cursor: 6}, s)

	s, err = FromArgs([]string{"git ch", "3"})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Cursor)

	_, err = FromArgs([]string{"git", "x"})
	assert.Error(t, err)

	_, err = FromArgs(nil)
	assert.Error(t, err)
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name      string
		state     State
		consumed  int
		insert    string
		nospace   bool
		wantLine  string
		wantPoint int
	}{
		{"ascii", State{"ls file", 7}, 4, "file.txt", false, "ls file.txt ", 12},
		{"multibyte word", State{"ls 中文", 5}, 2, "test.txt", false, "ls test.txt ", 12},
		{"multibyte insert", State{"git checkout feat", 17}, 4, "feature-中文", false, "git checkout feature-中文 ", 28},
		{"nospace", State{"cd pa", 5}, 2, "path", true, "cd path", 7},
		{"directory", State{"cd pa", 5}, 2, "path/", false, "cd path/", 8},
		{"empty word", State{"ls ", 3}, 0, "file.txt", false, "ls file.txt ", 12},
		{"mid line", State{"cat fo | wc", 6}, 2, "foo", false, "cat foo  | wc", 8},
		{"cursor inside word", State{"git commit", 7}, 3, "commit", true, "git commitmit", 10},
		{"partial utf8 prefix", State{"ls 中文", 4}, 1, "file.txt", false, "ls file.txt 文", 12},
		{"consumed longer than line", State{"ab", 2}, 10, "x", true, "x", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Splice(tt.state, tt.consumed, tt.insert, tt.nospace)
			assert.Equal(t, tt.wantLine, e.Line)
			assert.Equal(t, tt.wantPoint, e.Point)
		})
	}
}

func TestReplace(t *testing.T) {
	e := Replace("git status")
	assert.Equal(t, Edit{Line: "git status", Point: 10}, e)
}

func TestEdit_Unchanged(t *testing.T) {
	s := State{Line: "ls 中", Cursor: 4}
	assert.True(t, Edit{Line: "ls 中", Point: 6}.Unchanged(s))
	assert.False(t, Splice(s, 1, "x", true).Unchanged(s))
}

func TestEdit_Assignments(t *testing.T) {
	assert.Equal(t, "READLINE_LINE='ls my file'\nREADLINE_POINT=10\n", Edit{Line: "ls my file", Point: 10}.Assignments())
	assert.Equal(t, "READLINE_LINE=''\nREADLINE_POINT=0\n", Edit{}.Assignments())
	assert.Equal(t, "READLINE_LINE=ls\nREADLINE_POINT=2\n", Edit{Line: "ls", Point: 2}.Assignments())
}

func TestEdit_AssignmentsEvalInBash(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}

	lines := []string{
		`echo "it's $HOME" | grep 'x'`,
		"printf '%s\\n' `date`",
		"ls 中文 ; echo $'\\t'",
		"a\\ b",
	}
	for _, line := range lines {
		e := Edit{Line: line, Point: len(line)}
		script := e.Assignments() + `printf '%s' "$READLINE_LINE"`
		out, err := exec.Command("bash", "--norc", "--noprofile", "-c", script).Output()
		require.NoError(t, err, line)
		assert.Equal(t, line, string(out))
		assert.True(t, strings.HasSuffix(e.Assignments(), "\n"))
	}
}
