package completion

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/NikitaCOEUR/bft/internal/bash"
)

// execFunc runs an external command and returns its standard output.
type execFunc func(ctx context.Context, env []string, tool string, args ...string) ([]byte, error)

var runTool execFunc = bash.Exec

func lookPath(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

// tabbed turns "value<TAB>description" lines into suggestions.
func tabbed(lines []string) []Suggestion {
	out := make([]Suggestion, 0, len(lines))
	for _, line := range lines {
		value, desc, _ := strings.Cut(line, "\t")
		out = append(out, Suggestion{Value: value, Description: strings.TrimSpace(desc)})
	}
	return out
}

// splitPathWord splits a partially typed path into the directory to list
// and the name prefix to match.
func splitPathWord(word string) (dir, prefix string) {
	switch {
	case word == "":
		return ".", ""
	case strings.HasSuffix(word, "/"):
		return word, ""
	}
	return filepath.Dir(word), filepath.Base(word)
}

// listEntries lists the entries of the directory named by word whose name
// starts with its last element. Directories get a trailing / and no
// space; keep decides which regular files are listed. Dot entries only
// match a dot prefix.
func listEntries(word string, keep func(name string) bool) []Suggestion {
	dir, prefix := splitPathWord(word)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []Suggestion{}
	}

	bare := dir == "." && !strings.HasPrefix(word, "./")
	out := []Suggestion{}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || (name[0] == '.' && !strings.HasPrefix(prefix, ".")) {
			continue
		}
		value := name
		if !bare {
			value = filepath.Join(dir, name)
		}
		switch {
		case entry.IsDir():
			out = append(out, Suggestion{Value: value + "/", NoSpace: true})
		case keep != nil && keep(name):
			out = append(out, Suggestion{Value: value})
		}
	}
	return out
}
