// Package acme orchestrates the external getssl client.
//
// Certificate issuance is delegated entirely to getssl; this package wraps
// the invocation (optionally as a dedicated non-root user via sudo) and
// handles the one piece of shared state around it: temporarily opening the
// ACME challenge directory for writing while the client runs. That toggle is
// serialized process-wide because multiple domains may share one challenge
// directory.
package acme
