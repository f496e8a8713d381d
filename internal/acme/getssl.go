package acme

import (
	"fmt"
	"strings"

	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/executor"
	"github.com/ksyq12/certinstall/internal/logger"
)

// Client wraps the external getssl ACME client. The ACME protocol itself is
// entirely getssl's job; this tool only orchestrates the invocation and
// installs what getssl produces.
type Client struct {
	getsslPath string
	workdir    string
	user       string // run getssl as this user via sudo; empty = current user
	exec       executor.CommandExecutor
}

// NewClient creates a getssl client for the given working directory.
// When user is non-empty, getssl runs under sudo -u so issuance happens
// without root privileges.
func NewClient(getsslPath, workdir, user string) *Client {
	if getsslPath == "" {
		getsslPath = "getssl"
	}
	return &Client{
		getsslPath: getsslPath,
		workdir:    workdir,
		user:       user,
		exec:       executor.NewSystemExecutor(),
	}
}

// SetExecutor allows tests to inject a mock executor
func (c *Client) SetExecutor(exec executor.CommandExecutor) {
	c.exec = exec
}

// IsInstalled checks if getssl is available
func (c *Client) IsInstalled() bool {
	_, err := c.exec.LookPath(c.getsslPath)
	return err == nil
}

// run invokes getssl with the given arguments, via sudo when configured.
func (c *Client) run(args ...string) error {
	if !c.IsInstalled() {
		return errors.ErrGetsslNotInstalled
	}

	name := c.getsslPath
	if c.user != "" {
		args = append([]string{"-u", c.user, name}, args...)
		name = "sudo"
	}

	logger.Debug("running %s %s", name, strings.Join(args, " "))
	output, err := c.exec.Execute(name, args...)
	if err != nil {
		return errors.Wrap(errors.ErrCodeACME,
			fmt.Sprintf("getssl failed: %s", strings.TrimSpace(string(output))), err)
	}
	return nil
}

// Issue obtains or renews the certificate for one domain.
func (c *Client) Issue(domain string) error {
	return c.run("-w", c.workdir, domain)
}

// IssueAll obtains or renews certificates for every configured domain.
func (c *Client) IssueAll() error {
	return c.run("-w", c.workdir, "-a")
}
