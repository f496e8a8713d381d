package transport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/executor"
	"github.com/ksyq12/certinstall/internal/logger"
	"github.com/ksyq12/certinstall/internal/target"
)

// LocalTransport installs artifacts on the local filesystem.
type LocalTransport struct {
	exec executor.CommandExecutor
}

// NewLocal creates a local transport.
func NewLocal() *LocalTransport {
	return &LocalTransport{exec: executor.NewSystemExecutor()}
}

// NewLocalWithExecutor creates a local transport with a custom executor (for testing).
func NewLocalWithExecutor(exec executor.CommandExecutor) *LocalTransport {
	return &LocalTransport{exec: exec}
}

// Scheme returns the target class
func (l *LocalTransport) Scheme() target.Class {
	return target.ClassLocal
}

// Deliver copies src to tgt.Path and applies mode and owner. Ownership is
// applied with chown and skipped with a warning when not running as root.
func (l *LocalTransport) Deliver(src string, tgt target.Target, mode os.FileMode, owner string) error {
	if src != tgt.Path {
		if err := copyFile(src, tgt.Path, mode); err != nil {
			return errors.Wrap(errors.ErrCodeDelivery, "local install failed", err)
		}
	}

	if err := os.Chmod(tgt.Path, mode); err != nil {
		return errors.Wrap(errors.ErrCodeDelivery, "chmod failed", err)
	}

	if owner == "" {
		return nil
	}
	if os.Geteuid() != 0 {
		logger.Warn("chown %s skipped for %s (not running as root)", owner, tgt.Path)
		return nil
	}
	if out, err := l.exec.Execute("chown", owner, tgt.Path); err != nil {
		return errors.Wrap(errors.ErrCodeDelivery, fmt.Sprintf("chown failed: %s", strings.TrimSpace(string(out))), err)
	}
	return nil
}

// copyFile copies src to dst atomically: write a temp file in the
// destination directory, then rename over the destination.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".certinstall-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
