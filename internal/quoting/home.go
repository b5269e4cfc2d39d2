package quoting

import (
	"os/user"
	"strings"

	"github.com/NikitaCOEUR/bft/internal/derrors"
	"github.com/mitchellh/go-homedir"
)

// HomeLookup maps a user name to its home directory. An empty name means
// the current user.
type HomeLookup interface {
	Home(name string) (string, error)
}

// SystemHome resolves home directories from the environment and the
// system user database.
type SystemHome struct{}

// Home implements HomeLookup.
func (SystemHome) Home(name string) (string, error) {
	if name == "" {
		return homedir.Dir()
	}
	u, err := user.Lookup(name)
	if err != nil {
		return "", derrors.NewNotFoundError(name, "unknown user "+name)
	}
	return u.HomeDir, nil
}

// StaticHome is a fixed user to home mapping.
type StaticHome map[string]string

// Home implements HomeLookup.
func (m StaticHome) Home(name string) (string, error) {
	if h, ok := m[name]; ok {
		return h, nil
	}
	return "", derrors.NewNotFoundError(name, "unknown user "+name)
}

// SplitTilde splits "~user/rest" into ("user", "/rest", true).
func SplitTilde(s string) (name, rest string, ok bool) {
	if !strings.HasPrefix(s, "~") {
		return "", s, false
	}
	i := strings.IndexByte(s, '/')
	if i < 0 {
		return s[1:], "", true
	}
	return s[1:i], s[i:], true
}

// ExpandTilde replaces a leading ~ or ~user with the home directory.
// Paths without a tilde prefix are returned unchanged.
func ExpandTilde(s string, homes HomeLookup) (string, error) {
	name, rest, ok := SplitTilde(s)
	if !ok {
		return s, nil
	}
	home, err := homes.Home(name)
	if err != nil {
		return "", err
	}
	if rest == "" {
		return home, nil
	}
	return strings.TrimSuffix(home, "/") + rest, nil
}
