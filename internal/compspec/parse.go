package compspec

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// actionFlags maps the single-letter complete flags to their -A action names.
var actionFlags = map[byte]string{
	'a': "alias",
	'b': "builtin",
	'c': "command",
	'd': "directory",
	'e': "export",
	'f': "file",
	'g': "group",
	'j': "job",
	'k': "keyword",
	's': "service",
	'u': "user",
	'v': "variable",
}

// ParseComplete parses the output of `complete -p NAME`. It returns nil
// when the output holds no complete definition.
func ParseComplete(output string) (*Spec, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "complete ") {
			return parseLine(line)
		}
	}
	return nil, nil
}

func splitLines(output string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func parseLine(line string) (*Spec, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split complete definition: %w", err)
	}
	if len(args) == 0 || args[0] != "complete" {
		return nil, nil
	}

	spec := &Spec{Strategy: StrategyRegistered}
	var names []string

	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			names = append(names, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			names = append(names, arg)
			continue
		}

		value := func() string {
			if i+1 < len(args) {
				i++
				return args[i]
			}
			return ""
		}

		switch arg {
		case "-F":
			spec.Function = value()
		case "-W":
			spec.Wordlist = value()
		case "-G":
			spec.GlobPattern = value()
		case "-C":
			spec.Command = value()
		case "-X":
			spec.Filter = invertFilter(value())
		case "-P":
			spec.Prefix = value()
		case "-S":
			spec.Suffix = value()
		case "-o":
			spec.Options.Set(value())
		case "-A":
			if a := value(); a != "" {
				spec.Actions = append(spec.Actions, a)
			}
		default:
			for j := 1; j < len(arg); j++ {
				if a, ok := actionFlags[arg[j]]; ok {
					spec.Actions = append(spec.Actions, a)
				}
			}
		}
	}

	if len(names) > 0 {
		spec.Name = names[len(names)-1]
	}
	return spec, nil
}

// invertFilter converts between the -X convention, where matches are
// removed, and Spec.Filter, where matches are kept. The conversion is its
// own inverse.
func invertFilter(pattern string) string {
	if pattern == "" {
		return ""
	}
	if strings.HasPrefix(pattern, "!") {
		return pattern[1:]
	}
	return "!" + pattern
}
