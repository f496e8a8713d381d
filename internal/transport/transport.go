package transport

import (
	"os"

	"github.com/ksyq12/certinstall/internal/target"
)

// Transport delivers a locally built artifact to its destination and applies
// the destination-side permission profile.
type Transport interface {
	// Scheme returns the target class this transport serves.
	Scheme() target.Class

	// Deliver copies src to the destination described by tgt and applies
	// mode and owner on the destination side.
	Deliver(src string, tgt target.Target, mode os.FileMode, owner string) error
}

// registry holds all registered transports, keyed by target class.
var registry = make(map[target.Class]Transport)

// Register adds a transport to the registry, replacing any previous
// transport for the same scheme.
func Register(t Transport) {
	registry[t.Scheme()] = t
}

// Get returns the transport for a target class.
func Get(class target.Class) (Transport, bool) {
	t, ok := registry[class]
	return t, ok
}

// Available returns all registered schemes.
func Available() []target.Class {
	classes := make([]target.Class, 0, len(registry))
	for c := range registry {
		classes = append(classes, c)
	}
	return classes
}

func init() {
	Register(NewLocal())
	Register(NewSSH())
	Register(NewDocker())
}
