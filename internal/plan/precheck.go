package plan

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/ksyq12/certinstall/internal/artifact"
	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/errors"
)

// checkPreconditions verifies, before any step is marked, that every ACME
// source artifact the closure needs actually exists, and that the
// certificate and key belong together when both are involved. Failures here
// are fatal to the whole plan: no partial installation.
func checkPreconditions(dom *config.Domain, layout config.Layout, closure map[artifact.Kind]bool) error {
	for _, k := range []artifact.Kind{artifact.KindCACert, artifact.KindCert, artifact.KindKey} {
		if !closure[k] {
			continue
		}
		path := layout.SourcePath(k)
		if _, err := os.Stat(path); err != nil {
			return errors.SourceMissing(dom.Name, artifact.Description(k), path)
		}
	}

	if closure[artifact.KindCert] && closure[artifact.KindKey] {
		if err := checkCertKeyMatch(layout.CertPath, layout.KeyPath); err != nil {
			return errors.WrapDomain(errors.ErrCodePrecondition, dom.Name, err)
		}
	}
	return nil
}

// checkCertKeyMatch parses the certificate and private key and compares
// public keys. Unparseable files fail the check: installing material we
// cannot read is as wrong as installing mismatched material.
func checkCertKeyMatch(certPath, keyPath string) error {
	cert, err := readCertificate(certPath)
	if err != nil {
		return err
	}
	key, err := readPrivateKey(keyPath)
	if err != nil {
		return err
	}

	pub, ok := cert.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return errors.Config("unsupported certificate public key type in %s", certPath)
	}
	if !pub.Equal(key.Public()) {
		return errors.ErrKeyMismatch
	}
	return nil
}

func readCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePrecondition, "failed to read certificate", err)
	}
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, errors.Config("no certificate PEM block in %s", path)
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePrecondition, "failed to parse certificate", err)
		}
		return cert, nil
	}
}

func readPrivateKey(path string) (crypto.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePrecondition, "failed to read private key", err)
	}
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, errors.Config("no private key PEM block in %s", path)
		}
		switch block.Type {
		case "RSA PRIVATE KEY":
			return x509.ParsePKCS1PrivateKey(block.Bytes)
		case "EC PRIVATE KEY":
			return x509.ParseECPrivateKey(block.Bytes)
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodePrecondition, "failed to parse private key", err)
			}
			switch k := key.(type) {
			case *rsa.PrivateKey:
				return k, nil
			case *ecdsa.PrivateKey:
				return k, nil
			case ed25519.PrivateKey:
				return k, nil
			default:
				return nil, errors.Config("unsupported private key type in %s", path)
			}
		}
	}
}
