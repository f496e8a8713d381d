package artifact

import "os"

// Kind identifies a class of cryptographic artifact the planner can produce.
type Kind string

// Artifact kinds. The four source kinds (ca, cert, key, dh) have empty
// recipes; everything else is composed from them.
const (
	KindCACert  Kind = "ca"      // CA certificate chain
	KindCert    Kind = "cert"    // Domain certificate
	KindKey     Kind = "key"     // Domain private key
	KindDH      Kind = "dh"      // Diffie-Hellman parameters
	KindChain   Kind = "chain"   // Domain certificate + CA chain
	KindPEM     Kind = "pem"     // Combined PEM: cert + CA + key
	KindDHPEM   Kind = "dhpem"   // Combined PEM + DH parameters
	KindDHKey   Kind = "dhkey"   // Private key + DH parameters
	KindDHCert  Kind = "dhcert"  // Certificate + DH parameters
	KindCertKey Kind = "certkey" // Certificate + private key
	KindTxtCert Kind = "txtcert" // Human-readable certificate report
	KindTxtKey  Kind = "txtkey"  // Human-readable key report
)

// kinds lists every kind in canonical order. The order is load-bearing:
// it is the tie-break used by the plan builder, so sources come first.
var kinds = []Kind{
	KindCACert,
	KindCert,
	KindKey,
	KindDH,
	KindChain,
	KindPEM,
	KindDHPEM,
	KindDHKey,
	KindDHCert,
	KindCertKey,
	KindTxtCert,
	KindTxtKey,
}

// descriptions holds the human-readable name of each kind.
var descriptions = map[Kind]string{
	KindCACert:  "CA certificate",
	KindCert:    "domain certificate",
	KindKey:     "domain private key",
	KindDH:      "DH parameters",
	KindChain:   "certificate chain",
	KindPEM:     "combined PEM (cert+CA+key)",
	KindDHPEM:   "combined PEM with DH parameters",
	KindDHKey:   "private key with DH parameters",
	KindDHCert:  "certificate with DH parameters",
	KindCertKey: "certificate with private key",
	KindTxtCert: "certificate text report",
	KindTxtKey:  "key text report",
}

// recipes maps each derived kind to the ordered source kinds it is
// composed from by concatenation. Declared once, never mutated.
var recipes = map[Kind][]Kind{
	KindCACert:  {},
	KindCert:    {},
	KindKey:     {},
	KindDH:      {},
	KindChain:   {KindCert, KindCACert},
	KindPEM:     {KindCert, KindCACert, KindKey},
	KindDHPEM:   {KindCert, KindCACert, KindKey, KindDH},
	KindDHKey:   {KindKey, KindDH},
	KindDHCert:  {KindCert, KindDH},
	KindCertKey: {KindCert, KindKey},
	KindTxtCert: {KindCert, KindCACert},
	KindTxtKey:  {KindKey, KindDH},
}

// Kinds returns every artifact kind in canonical order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k is a known artifact kind.
func Valid(k Kind) bool {
	_, ok := recipes[k]
	return ok
}

// Dependencies returns the ordered source kinds k is composed from.
// Source kinds return an empty list. Total over the kind set.
func Dependencies(k Kind) []Kind {
	deps := recipes[k]
	out := make([]Kind, len(deps))
	copy(out, deps)
	return out
}

// Description returns the human-readable name of k.
func Description(k Kind) string {
	return descriptions[k]
}

// IsSource reports whether k is produced by the external ACME client
// (or generated, in the case of DH parameters) rather than composed.
func IsSource(k Kind) bool {
	return len(recipes[k]) == 0
}

// IsReport reports whether k is a text report rendered from its sources
// instead of concatenated.
func IsReport(k Kind) bool {
	return k == KindTxtCert || k == KindTxtKey
}

// Profile is the permission and ownership profile applied to an artifact
// after creation. Public and private profiles never mix within one kind.
type Profile struct {
	Mode  os.FileMode
	Owner string
}

var (
	// PublicProfile applies to material safe for world reading.
	PublicProfile = Profile{Mode: 0o644, Owner: "root:root"}

	// PrivateProfile applies to anything containing key or DH material.
	PrivateProfile = Profile{Mode: 0o600, Owner: "root:root"}
)

// privateKinds is the set of kinds carrying private material.
var privateKinds = map[Kind]bool{
	KindKey:     true,
	KindDH:      true,
	KindPEM:     true,
	KindDHPEM:   true,
	KindDHKey:   true,
	KindDHCert:  true,
	KindCertKey: true,
	KindTxtKey:  true,
}

// ProfileFor returns the permission profile for k.
func ProfileFor(k Kind) Profile {
	if privateKinds[k] {
		return PrivateProfile
	}
	return PublicProfile
}
