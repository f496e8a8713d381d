package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ksyq12/certinstall/internal/artifact"
	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/logger"
)

// domainConfigFile is the per-domain config file name inside the domain's
// directory under the working directory. A file with the same name at the
// top of the working directory supplies global defaults.
const domainConfigFile = "certinstall.cfg"

// locationKeys maps configuration keys to the artifact kind they install.
var locationKeys = map[string]artifact.Kind{
	"CA_CERT_LOCATION":        artifact.KindCACert,
	"DOMAIN_CERT_LOCATION":    artifact.KindCert,
	"DOMAIN_KEY_LOCATION":     artifact.KindKey,
	"DOMAIN_CHAIN_LOCATION":   artifact.KindChain,
	"DOMAIN_PEM_LOCATION":     artifact.KindPEM,
	"DOMAIN_DH_LOCATION":      artifact.KindDH,
	"DOMAIN_DHPEM_LOCATION":   artifact.KindDHPEM,
	"DOMAIN_DHKEY_LOCATION":   artifact.KindDHKey,
	"DOMAIN_DHCRT_LOCATION":   artifact.KindDHCert,
	"DOMAIN_CRTKEY_LOCATION":  artifact.KindCertKey,
	"DOMAIN_TXTCERT_LOCATION": artifact.KindTxtCert,
	"DOMAIN_TXTKEY_LOCATION":  artifact.KindTxtKey,
}

// Domain is the immutable per-domain configuration consumed by the planner.
type Domain struct {
	Name string

	// Locations maps artifact kinds to their raw destination strings.
	// Absence of a kind means that artifact is not installed.
	Locations map[artifact.Kind]string

	// DHParamLen is the DH parameter bit length (DOMAIN_DHPARAM_LEN).
	DHParamLen int

	// ReuseDHParam keeps existing DH parameters across renewals instead
	// of regenerating them (REUSE_DHPARAM=true).
	ReuseDHParam bool

	// ReloadCmd is run once after a successful reinstall that changed
	// at least one artifact (RELOAD_CMD).
	ReloadCmd string
}

// DefaultDHParamLen is used when DOMAIN_DHPARAM_LEN is not set.
const DefaultDHParamLen = 2048

// LoadDomain reads the configuration for one domain: the global defaults
// file first (if present), then the domain file on top of it.
func LoadDomain(workdir, domain string) (*Domain, error) {
	d := &Domain{
		Name:       domain,
		Locations:  make(map[artifact.Kind]string),
		DHParamLen: DefaultDHParamLen,
	}

	globalPath := filepath.Join(workdir, domainConfigFile)
	if _, err := os.Stat(globalPath); err == nil {
		if err := d.mergeFile(globalPath); err != nil {
			return nil, err
		}
	}

	domainPath := filepath.Join(workdir, domain, domainConfigFile)
	if _, err := os.Stat(domainPath); os.IsNotExist(err) {
		return nil, errors.NotFound(domain)
	}
	if err := d.mergeFile(domainPath); err != nil {
		return nil, err
	}

	return d, nil
}

// mergeFile parses a key=value config file into d, later files winning.
//
// The format follows getssl configuration files: one KEY=value per line,
// values optionally single- or double-quoted, # starts a comment, blank
// lines ignored.
func (d *Domain) mergeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "failed to read domain config", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return errors.Config("%s:%d: expected KEY=value", path, lineno)
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		if err := d.apply(key, value, path, lineno); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "failed to read domain config", err)
	}
	return nil
}

func (d *Domain) apply(key, value, path string, lineno int) error {
	if kind, ok := locationKeys[key]; ok {
		if value == "" {
			delete(d.Locations, kind)
			return nil
		}
		d.Locations[kind] = value
		return nil
	}

	switch key {
	case "DOMAIN_DHPARAM_LEN":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return errors.Config("%s:%d: DOMAIN_DHPARAM_LEN must be a positive integer, got %q", path, lineno, value)
		}
		d.DHParamLen = n
	case "REUSE_DHPARAM":
		// Only the literal "true" enables reuse; anything else disables it.
		d.ReuseDHParam = value == "true"
	case "RELOAD_CMD":
		d.ReloadCmd = value
	default:
		logger.Debug("ignoring unknown config key %s (%s:%d)", key, path, lineno)
	}
	return nil
}

// unquote strips one matching pair of single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Layout describes where the ACME client's output and the planner's scratch
// files live for one domain.
type Layout struct {
	// Dir is the domain's directory under the working directory.
	Dir string

	// CertPath, KeyPath and CAPath are written by the external ACME client.
	CertPath string
	KeyPath  string
	CAPath   string

	// DHPath is the locally generated DH parameter file.
	DHPath string

	// StagingDir holds staging files for remote and container targets.
	StagingDir string
}

// DomainLayout returns the on-disk layout for one domain.
func DomainLayout(workdir, domain string) Layout {
	dir := filepath.Join(workdir, domain)
	return Layout{
		Dir:        dir,
		CertPath:   filepath.Join(dir, domain+".crt"),
		KeyPath:    filepath.Join(dir, domain+".key"),
		CAPath:     filepath.Join(dir, "chain.crt"),
		DHPath:     filepath.Join(dir, "dhparam.pem"),
		StagingDir: filepath.Join(dir, ".staging"),
	}
}

// SourcePath returns the local file backing a source kind.
// Only meaningful for kinds with an empty recipe.
func (l Layout) SourcePath(k artifact.Kind) string {
	switch k {
	case artifact.KindCACert:
		return l.CAPath
	case artifact.KindCert:
		return l.CertPath
	case artifact.KindKey:
		return l.KeyPath
	case artifact.KindDH:
		return l.DHPath
	default:
		return ""
	}
}
