package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ksyq12/certinstall/internal/artifact"
	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/executor"
	"github.com/ksyq12/certinstall/internal/logger"
	"github.com/ksyq12/certinstall/internal/plan"
	"github.com/ksyq12/certinstall/internal/report"
	"github.com/ksyq12/certinstall/internal/transport"
)

// Options control an installation run.
type Options struct {
	// Force rebuilds and reinstalls everything, and suppresses the
	// reload hook (a forced rebuild produces bit-identical material; the
	// hook is for picking up renewals).
	Force bool

	// WithText additionally builds the text report artifacts.
	WithText bool
}

// Installer executes BuildPlans for one working directory.
type Installer struct {
	workdir string
	cfg     *config.Config
	exec    executor.CommandExecutor
	clock   report.Clock
}

// New creates an Installer for workdir.
func New(workdir string, cfg *config.Config) *Installer {
	return &Installer{
		workdir: workdir,
		cfg:     cfg,
		exec:    executor.NewSystemExecutor(),
		clock:   time.Now,
	}
}

// NewWithExecutor creates an Installer with a custom executor and clock (for testing).
func NewWithExecutor(workdir string, cfg *config.Config, exec executor.CommandExecutor, clock report.Clock) *Installer {
	return &Installer{workdir: workdir, cfg: cfg, exec: exec, clock: clock}
}

// Result summarizes one domain's run.
type Result struct {
	Domain  string `json:"domain"`
	Planned int    `json:"planned"`
	Built   int    `json:"built"`
	Reload  bool   `json:"reload"`
}

// Domain plans and installs one domain's artifacts.
func (in *Installer) Domain(name string, opts Options) (*Result, error) {
	dom, err := config.LoadDomain(in.workdir, name)
	if err != nil {
		return nil, err
	}
	layout := config.DomainLayout(in.workdir, name)

	p, err := plan.Build(dom, layout, plan.Options{Force: opts.Force, WithText: opts.WithText})
	if err != nil {
		return nil, err
	}

	return in.Run(p, dom, layout, opts)
}

// Run executes a plan sequentially in dependency order. Failures abort the
// remaining steps but nothing already installed is rolled back: every step
// is idempotent and a re-run converges.
func (in *Installer) Run(p *plan.Plan, dom *config.Domain, layout config.Layout, opts Options) (*Result, error) {
	res := &Result{Domain: p.Domain, Planned: len(p.Steps)}

	for _, step := range p.Steps {
		if step.Action != plan.ActionBuild {
			logger.Debug("%s: %s up to date", p.Domain, step.Kind)
			continue
		}
		if err := in.runStep(step, dom, layout); err != nil {
			return res, err
		}
		res.Built++
	}

	if res.Built > 0 && !opts.Force && dom.ReloadCmd != "" {
		logger.Info("%s: running reload command", p.Domain)
		if out, err := in.exec.ExecuteShell(dom.ReloadCmd); err != nil {
			return res, errors.WrapDomain(errors.ErrCodeReload, p.Domain,
				fmt.Errorf("%w: %s: %s", errors.ErrReloadFailed, dom.ReloadCmd, strings.TrimSpace(string(out))))
		}
		res.Reload = true
	}

	return res, nil
}

// runStep materializes one artifact and delivers it.
func (in *Installer) runStep(step plan.Step, dom *config.Domain, layout config.Layout) error {
	logger.Info("%s: building %s -> %s", dom.Name, artifact.Description(step.Kind), step.OutputPath)

	if step.Generate {
		if err := in.generateDH(layout.DHPath, dom.DHParamLen); err != nil {
			return errors.WrapDomain(errors.ErrCodeInternal, dom.Name, err)
		}
	}

	var err error
	switch {
	case step.Render:
		err = in.renderReport(step)
	case len(step.SourcePaths) > 0:
		err = concat(step.SourcePaths, step.OutputPath, step.Profile.Mode)
	}
	if err != nil {
		return errors.WrapDomain(errors.ErrCodeInternal, dom.Name, err)
	}

	// Local permissions before anything leaves the machine; the staging
	// file carries the same profile as the destination.
	if step.OutputPath != "" {
		if err := os.Chmod(step.OutputPath, step.Profile.Mode); err != nil {
			return errors.WrapDomain(errors.ErrCodeInternal, dom.Name, err)
		}
	}

	if step.Target == nil {
		return nil
	}

	tr, ok := transport.Get(step.Target.Class)
	if !ok {
		return errors.Config("no transport registered for %s targets", step.Target.Class)
	}
	if err := tr.Deliver(step.OutputPath, *step.Target, step.Profile.Mode, step.Profile.Owner); err != nil {
		return errors.WrapDomain(errors.ErrCodeDelivery, dom.Name, err)
	}
	return nil
}

// generateDH produces fresh DH parameters with openssl, atomically.
func (in *Installer) generateDH(path string, bits int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	logger.Info("generating %d bit DH parameters (this can take a while)", bits)
	if out, err := in.exec.Execute(in.cfg.OpensslPath, "dhparam", "-out", tmp, strconv.Itoa(bits)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("openssl dhparam failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	if err := os.Chmod(tmp, artifact.PrivateProfile.Mode); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// renderReport builds one of the text report artifacts.
func (in *Installer) renderReport(step plan.Step) error {
	var data []byte
	var err error
	if step.Kind == artifact.KindTxtCert {
		data, err = report.Certificate(step.SourcePaths, in.clock)
	} else {
		data, err = report.Key(step.SourcePaths, in.clock)
	}
	if err != nil {
		return err
	}
	return writeFile(step.OutputPath, data, step.Profile.Mode)
}

// concat composes an artifact by concatenating its sources in recipe order,
// writing atomically via a temp file in the destination directory.
func concat(sources []string, dst string, mode os.FileMode) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".certinstall-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	for _, src := range sources {
		f, err := os.Open(src)
		if err != nil {
			tmp.Close()
			return err
		}
		_, err = io.Copy(tmp, f)
		f.Close()
		if err != nil {
			tmp.Close()
			return err
		}
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

func writeFile(dst string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".certinstall-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
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
