// Package target classifies artifact installation destinations.
//
// A destination string from the domain configuration is decided once at load
// time into a tagged Target value: a local filesystem path, a remote path
// reachable over SSH (ssh:host:path), or a path inside a named container
// (docker:name:path). Any other scheme-looking prefix is a configuration
// error rather than being silently treated as a local path.
//
// Remote and container targets are built into a staging file first. The
// staging path is derived from a hash of the full target string, so repeated
// runs with an identical target reuse the same staging file and its
// timestamp, which is what the freshness check compares against.
package target

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ksyq12/certinstall/internal/errors"
)

// Class is the delivery class of a target.
type Class string

// Target classes.
const (
	ClassLocal  Class = "local"
	ClassSSH    Class = "ssh"
	ClassDocker Class = "docker"
)

// Target is a classified installation destination.
type Target struct {
	Class     Class
	Host      string // ssh targets only
	Container string // docker targets only
	Path      string // destination path (local, remote, or in-container)
	Raw       string // the original configuration string
}

// Remote reports whether delivery requires a staging file and transfer.
func (t Target) Remote() bool {
	return t.Class == ClassSSH || t.Class == ClassDocker
}

// String returns the original configuration string.
func (t Target) String() string {
	return t.Raw
}

// schemeRe matches a scheme-like prefix. A single leading letter followed by
// a colon is still treated as a scheme: the configuration format is
// Unix-path based, so there are no drive letters to confuse it with.
var schemeRe = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*):`)

// Resolve classifies a raw destination string.
//
// Recognized forms:
//
//	/local/path
//	ssh:host:/remote/path
//	docker:container:/path/inside
//
// Any other scheme prefix is a configuration error.
func Resolve(raw string) (Target, error) {
	if raw == "" {
		return Target{}, errors.Config("empty install target")
	}

	m := schemeRe.FindStringSubmatch(raw)
	if m == nil {
		return Target{Class: ClassLocal, Path: raw, Raw: raw}, nil
	}

	rest := raw[len(m[0]):]
	switch m[1] {
	case "ssh":
		host, path, ok := strings.Cut(rest, ":")
		if !ok || host == "" || path == "" {
			return Target{}, errors.Config("malformed ssh target %q (want ssh:host:path)", raw)
		}
		return Target{Class: ClassSSH, Host: host, Path: path, Raw: raw}, nil
	case "docker":
		name, path, ok := strings.Cut(rest, ":")
		if !ok || name == "" || path == "" {
			return Target{}, errors.Config("malformed docker target %q (want docker:container:path)", raw)
		}
		return Target{Class: ClassDocker, Container: name, Path: path, Raw: raw}, nil
	default:
		return Target{}, errors.Config("unsupported target scheme %q in %q", m[1], raw)
	}
}

// StagingPath returns the deterministic local scratch path used before
// delivering to a remote or container destination. The name is derived from
// the full target string, so the same target always stages to the same file.
func StagingPath(stagingDir, raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return filepath.Join(stagingDir, hex.EncodeToString(sum[:])[:16])
}
