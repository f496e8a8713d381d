package transport

import (
	"fmt"
	"os"
	"strings"

	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/executor"
	"github.com/ksyq12/certinstall/internal/target"
)

// DockerTransport delivers artifacts into named containers with docker cp,
// then applies permissions with docker exec.
type DockerTransport struct {
	exec executor.CommandExecutor
}

// NewDocker creates a docker transport.
func NewDocker() *DockerTransport {
	return &DockerTransport{exec: executor.NewSystemExecutor()}
}

// NewDockerWithExecutor creates a docker transport with a custom executor (for testing).
func NewDockerWithExecutor(exec executor.CommandExecutor) *DockerTransport {
	return &DockerTransport{exec: exec}
}

// Scheme returns the target class
func (d *DockerTransport) Scheme() target.Class {
	return target.ClassDocker
}

// Deliver copies src into the container and applies mode and owner inside it.
func (d *DockerTransport) Deliver(src string, tgt target.Target, mode os.FileMode, owner string) error {
	dest := fmt.Sprintf("%s:%s", tgt.Container, tgt.Path)
	if out, err := d.exec.Execute("docker", "cp", src, dest); err != nil {
		return errors.Wrap(errors.ErrCodeDelivery,
			fmt.Sprintf("docker cp to %s failed: %s", dest, strings.TrimSpace(string(out))), err)
	}

	if out, err := d.exec.Execute("docker", "exec", tgt.Container, "chmod", fmt.Sprintf("%o", mode.Perm()), tgt.Path); err != nil {
		return errors.Wrap(errors.ErrCodeDelivery,
			fmt.Sprintf("docker chmod in %s failed: %s", tgt.Container, strings.TrimSpace(string(out))), err)
	}
	if owner != "" {
		if out, err := d.exec.Execute("docker", "exec", tgt.Container, "chown", owner, tgt.Path); err != nil {
			return errors.Wrap(errors.ErrCodeDelivery,
				fmt.Sprintf("docker chown in %s failed: %s", tgt.Container, strings.TrimSpace(string(out))), err)
		}
	}
	return nil
}
