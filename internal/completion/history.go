package completion

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/samber/lo"

	"github.com/NikitaCOEUR/bft/internal/compspec"
)

// DefaultHistoryLimit is the number of history entries offered by default.
const DefaultHistoryLimit = 20

var historyTimestamp = regexp.MustCompile(`^#\d+$`)

// HistorySource offers previous command lines starting with the typed
// line. A selected entry replaces the whole line.
type HistorySource struct {
	path  func() string
	limit int
}

// NewHistorySource creates a source reading path, or HISTFILE and then
// ~/.bash_history when path is empty. limit <= 0 means no limit.
func NewHistorySource(path string, limit int) *HistorySource {
	h := &HistorySource{limit: limit, path: func() string { return path }}
	if path == "" {
		h.path = HistoryFile
	}
	return h
}

// HistoryFile returns the bash history file of the current user.
func HistoryFile() string {
	if f := os.Getenv("HISTFILE"); f != "" {
		return f
	}
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bash_history")
}

// Name implements Source.
func (h *HistorySource) Name() string { return "history" }

// Supports implements Source.
func (h *HistorySource) Supports(c Context, _ *compspec.Spec) bool {
	return strings.TrimSpace(lineBeforeCursor(c)) != ""
}

// Complete implements Source.
func (h *HistorySource) Complete(_ context.Context, c Context, _ *compspec.Spec) ([]Suggestion, error) {
	path := h.path()
	if path == "" {
		return nil, nil
	}

	entries, err := ReadHistory(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	prefix := strings.ToLower(strings.TrimLeft(lineBeforeCursor(c), " \t"))
	line := strings.TrimSpace(c.Line)

	var out []Suggestion
	for _, e := range entries {
		if e == line || !strings.HasPrefix(strings.ToLower(e), prefix) {
			continue
		}
		out = append(out, Suggestion{Value: e, Source: h.Name(), ReplaceLine: true})
		if h.limit > 0 && len(out) >= h.limit {
			break
		}
	}
	return out, nil
}

// ReadHistory returns the unique entries of a bash history file, newest
// first. Timestamp comments and lines starting with a space are skipped.
func ReadHistory(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, " ") || historyTimestamp.MatchString(line) {
			continue
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lo.Uniq(lo.Reverse(lines)), nil
}

func lineBeforeCursor(c Context) string {
	runes := []rune(c.Line)
	if c.Cursor < len(runes) {
		runes = runes[:c.Cursor]
	}
	return string(runes)
}
