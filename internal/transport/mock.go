package transport

import (
	"os"

	"github.com/ksyq12/certinstall/internal/target"
)

// MockTransport is a test double for the Transport interface
type MockTransport struct {
	scheme target.Class

	// DeliverFunc customizes behavior; nil means succeed.
	DeliverFunc func(src string, tgt target.Target, mode os.FileMode, owner string) error

	// Deliveries records every Deliver call for verification.
	Deliveries []Delivery
}

// Delivery records arguments passed to Deliver
type Delivery struct {
	Src    string
	Target target.Target
	Mode   os.FileMode
	Owner  string
}

// NewMockTransport creates a MockTransport for the given scheme
func NewMockTransport(scheme target.Class) *MockTransport {
	return &MockTransport{scheme: scheme}
}

// Scheme returns the configured scheme
func (m *MockTransport) Scheme() target.Class {
	return m.scheme
}

// Deliver records the call and invokes the mock function if set
func (m *MockTransport) Deliver(src string, tgt target.Target, mode os.FileMode, owner string) error {
	m.Deliveries = append(m.Deliveries, Delivery{Src: src, Target: tgt, Mode: mode, Owner: owner})
	if m.DeliverFunc != nil {
		return m.DeliverFunc(src, tgt, mode, owner)
	}
	return nil
}

// Reset clears all recorded deliveries
func (m *MockTransport) Reset() {
	m.Deliveries = nil
}
