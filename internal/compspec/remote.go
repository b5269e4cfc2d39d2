package compspec

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxRemoteSize caps a downloaded registry.
const MaxRemoteSize = 1 << 20

// Remote is a registry file published over HTTP and mirrored in Dir. The
// mirror carries a .sha256 sidecar so a truncated write is never parsed.
type Remote struct {
	URL string
	Dir string
	// TTL is how long the mirror is used without downloading again.
	TTL    time.Duration
	Client *http.Client
}

// Path returns the mirror location.
func (r *Remote) Path() string {
	return RemoteRegistryPath(r.Dir, r.URL)
}

// RemoteRegistryPath returns where the registry at rawURL is mirrored.
func RemoteRegistryPath(dir, rawURL string) string {
	return filepath.Join(dir, "registry-"+digest([]byte(rawURL))[:12]+".yml")
}

// Load returns the published registry. A mirror younger than TTL is used
// as is; an older one only when the download fails.
func (r *Remote) Load(ctx context.Context) (*StaticRegistry, error) {
	if err := validateURL(r.URL); err != nil {
		return nil, fmt.Errorf("invalid registry URL: %w", err)
	}

	mirror, fresh := r.readMirror()
	if mirror != nil && fresh {
		return mirror, nil
	}

	data, err := r.fetch(ctx)
	if err != nil {
		if mirror != nil {
			return mirror, nil
		}
		return nil, fmt.Errorf("failed to download registry: %w", err)
	}

	reg, err := ParseRegistry(data)
	if err != nil {
		return nil, err
	}
	r.writeMirror(data)
	return reg, nil
}

// LoadRemoteRegistry loads the registry at rawURL mirrored in dir.
func LoadRemoteRegistry(rawURL, dir string, ttl time.Duration) (*StaticRegistry, error) {
	return (&Remote{URL: rawURL, Dir: dir, TTL: ttl}).Load(context.Background())
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	switch {
	case err != nil:
		return err
	case u.Scheme != "https" && u.Scheme != "http":
		return fmt.Errorf("URL must use HTTP or HTTPS scheme, got: %s", u.Scheme)
	case u.Host == "":
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

func (r *Remote) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, err
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxRemoteSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxRemoteSize {
		return nil, fmt.Errorf("registry exceeds %d bytes", MaxRemoteSize)
	}
	return data, nil
}

// readMirror returns the mirrored registry, or nil when it is missing,
// fails its checksum or does not parse.
func (r *Remote) readMirror() (reg *StaticRegistry, fresh bool) {
	path := r.Path()
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	sum, err := os.ReadFile(path + ".sha256")
	if err != nil || strings.TrimSpace(string(sum)) != digest(data) {
		return nil, false
	}
	if reg, err = ParseRegistry(data); err != nil {
		return nil, false
	}
	return reg, time.Since(info.ModTime()) < r.TTL
}

func (r *Remote) writeMirror(data []byte) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return
	}
	path := r.Path()
	if os.WriteFile(path, data, 0o644) == nil {
		_ = os.WriteFile(path+".sha256", []byte(digest(data)), 0o644)
	}
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
