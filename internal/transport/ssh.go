package transport

import (
	"fmt"
	"os"
	"strings"

	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/executor"
	"github.com/ksyq12/certinstall/internal/target"
)

// SSHTransport delivers artifacts to remote hosts with scp, then applies
// permissions on the remote side over ssh. Both commands go through the
// user's normal ssh configuration (agent, known_hosts, per-host settings),
// matching how the artifacts would be copied by hand.
type SSHTransport struct {
	exec executor.CommandExecutor
}

// NewSSH creates an ssh transport.
func NewSSH() *SSHTransport {
	return &SSHTransport{exec: executor.NewSystemExecutor()}
}

// NewSSHWithExecutor creates an ssh transport with a custom executor (for testing).
func NewSSHWithExecutor(exec executor.CommandExecutor) *SSHTransport {
	return &SSHTransport{exec: exec}
}

// Scheme returns the target class
func (s *SSHTransport) Scheme() target.Class {
	return target.ClassSSH
}

// Deliver copies src to host:path and applies mode and owner remotely.
func (s *SSHTransport) Deliver(src string, tgt target.Target, mode os.FileMode, owner string) error {
	dest := fmt.Sprintf("%s:%s", tgt.Host, tgt.Path)
	if out, err := s.exec.Execute("scp", "-p", "-q", src, dest); err != nil {
		return errors.Wrap(errors.ErrCodeDelivery,
			fmt.Sprintf("scp to %s failed: %s", dest, strings.TrimSpace(string(out))), err)
	}

	// Permissions cannot ride along with scp; set them out of band.
	cmd := fmt.Sprintf("chmod %o %s", mode.Perm(), tgt.Path)
	if owner != "" {
		cmd = fmt.Sprintf("%s && chown %s %s", cmd, owner, tgt.Path)
	}
	if out, err := s.exec.Execute("ssh", tgt.Host, cmd); err != nil {
		return errors.Wrap(errors.ErrCodeDelivery,
			fmt.Sprintf("remote permissions on %s failed: %s", dest, strings.TrimSpace(string(out))), err)
	}
	return nil
}
