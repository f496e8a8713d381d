package acme

import (
	"os"
	"sync"

	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/logger"
)

// challengeMu serializes challenge directory permission changes globally.
// Multiple domains may share one challenge directory; opening and closing it
// must not interleave across concurrent domain runs.
var challengeMu sync.Mutex

// WithOpenChallengeDir makes dir world-writable for the duration of fn, then
// restores the previous mode. The non-privileged ACME user needs to place
// challenge files there while getssl runs. A nil error from fn does not
// suppress a restore failure: leaving a challenge directory world-writable
// is worse than a failed renewal.
func WithOpenChallengeDir(dir string, fn func() error) error {
	if dir == "" {
		return fn()
	}

	challengeMu.Lock()
	defer challengeMu.Unlock()

	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "challenge directory unavailable", err)
	}
	prev := info.Mode().Perm()

	logger.Debug("opening challenge directory %s for writing", dir)
	if err := os.Chmod(dir, prev|0o002); err != nil {
		return errors.Wrap(errors.ErrCodeACME, "failed to open challenge directory", err)
	}

	fnErr := fn()

	if err := os.Chmod(dir, prev); err != nil {
		if fnErr != nil {
			logger.Error("failed to restore challenge directory mode: %v", err)
			return fnErr
		}
		return errors.Wrap(errors.ErrCodeACME, "failed to restore challenge directory mode", err)
	}
	return fnErr
}
