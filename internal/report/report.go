// Package report renders the two human-readable text artifacts: the
// certificate report and the key report.
//
// Reports are a formatting concern layered on the same dependency and
// freshness machinery as every other artifact: the installer asks for a
// report exactly when one of its source files changed. Rendering is
// deterministic given a fixed clock, which is what the tests inject.
package report

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/grantae/certinfo"

	"github.com/ksyq12/certinstall/internal/errors"
)

var headerTmpl = template.Must(template.New("header").Parse(
	"# {{.Title}}\n# generated {{.Now.Format \"2006-01-02 15:04:05 MST\"}}\n\n"))

type headerData struct {
	Title string
	Now   time.Time
}

// Clock returns the current time; replaced in tests for deterministic output.
type Clock func() time.Time

// Certificate renders the certificate report: a generation header followed
// by the full text decode of every certificate found in the source files.
func Certificate(paths []string, now Clock) ([]byte, error) {
	var buf bytes.Buffer
	if err := headerTmpl.Execute(&buf, headerData{Title: "certificate report", Now: now()}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to render report header", err)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePrecondition, "failed to read certificate", err)
		}
		found := false
		for {
			var block *pem.Block
			block, data = pem.Decode(data)
			if block == nil {
				break
			}
			if block.Type != "CERTIFICATE" {
				continue
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodePrecondition, fmt.Sprintf("failed to parse certificate in %s", path), err)
			}
			text, err := certinfo.CertificateText(cert)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, "failed to decode certificate", err)
			}
			found = true
			fmt.Fprintf(&buf, "# %s\n%s\n", path, text)
		}
		if !found {
			return nil, errors.Config("no certificate PEM block in %s", path)
		}
	}
	return buf.Bytes(), nil
}

// Key renders the key report: a generation header followed by a summary of
// each source file. Private keys are summarized (algorithm, size, public-key
// fingerprint) rather than decoded in full, so the public-profile half of a
// report never leaks key material by accident.
func Key(paths []string, now Clock) ([]byte, error) {
	var buf bytes.Buffer
	if err := headerTmpl.Execute(&buf, headerData{Title: "key report", Now: now()}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to render report header", err)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePrecondition, "failed to read key material", err)
		}
		summary, err := summarizePEM(path, data)
		if err != nil {
			return nil, err
		}
		buf.WriteString(summary)
	}
	return buf.Bytes(), nil
}

func summarizePEM(path string, data []byte) (string, error) {
	var buf bytes.Buffer
	found := false
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		found = true
		switch block.Type {
		case "RSA PRIVATE KEY", "EC PRIVATE KEY", "PRIVATE KEY":
			desc, err := describePrivateKey(block)
			if err != nil {
				return "", errors.Wrap(errors.ErrCodePrecondition, fmt.Sprintf("failed to parse key in %s", path), err)
			}
			fmt.Fprintf(&buf, "# %s\n%s\n", path, desc)
		case "DH PARAMETERS":
			// No stdlib decoder for PKCS#3; report the encoded size,
			// which tracks the prime length closely enough to spot a
			// wrong DOMAIN_DHPARAM_LEN.
			fmt.Fprintf(&buf, "# %s\nDH parameters (%d bytes DER, ~%d bit)\n\n", path, len(block.Bytes), approxDHBits(len(block.Bytes)))
		default:
			fmt.Fprintf(&buf, "# %s\n%s (%d bytes DER)\n\n", path, block.Type, len(block.Bytes))
		}
	}
	if !found {
		return "", errors.Config("no PEM block in %s", path)
	}
	return buf.String(), nil
}

func describePrivateKey(block *pem.Block) (string, error) {
	var key interface{}
	var err error
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	default:
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	if err != nil {
		return "", err
	}

	switch k := key.(type) {
	case *rsa.PrivateKey:
		return fmt.Sprintf("RSA private key, %d bit\npublic key fingerprint: %s\n",
			k.N.BitLen(), publicKeyFingerprint(&k.PublicKey)), nil
	case *ecdsa.PrivateKey:
		return fmt.Sprintf("ECDSA private key, curve %s\npublic key fingerprint: %s\n",
			k.Curve.Params().Name, publicKeyFingerprint(&k.PublicKey)), nil
	case ed25519.PrivateKey:
		return fmt.Sprintf("Ed25519 private key\npublic key fingerprint: %s\n",
			publicKeyFingerprint(k.Public())), nil
	default:
		return "", fmt.Errorf("unsupported key type %T", key)
	}
}

func publicKeyFingerprint(pub interface{}) string {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "unavailable"
	}
	sum := sha256.Sum256(der)
	return "SHA256:" + hex.EncodeToString(sum[:])
}

// approxDHBits estimates the prime size from the DER encoding length,
// rounded down to a multiple of 256. The encoding is two INTEGERs (prime and
// generator) plus roughly ten bytes of framing.
func approxDHBits(derLen int) int {
	bits := (derLen - 10) * 8
	if bits < 0 {
		return 0
	}
	return bits - bits%256
}
