package bash

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// PathCommands lists executables in the directories of pathList whose
// name starts with prefix. It is used when bash itself is unavailable.
func PathCommands(prefix, pathList string) []string {
	var names []string
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			dir = "."
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if !strings.HasPrefix(name, prefix) || e.IsDir() {
				continue
			}
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil || info.IsDir() || info.Mode()&0111 == 0 {
				continue
			}
			names = append(names, name)
		}
	}
	return lo.Uniq(names)
}
