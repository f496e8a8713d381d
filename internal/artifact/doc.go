// Package artifact defines the fixed catalog of certificate artifacts the
// installer knows how to produce, and how each is composed.
//
// # Kinds
//
// Twelve kinds exist. Four are sources: the CA chain, the domain certificate
// and key (all written by the external ACME client), and the DH parameter
// file (generated locally). The rest are derived by concatenating sources in
// recipe order, except the two text report kinds, which are rendered decodes
// of their sources.
//
// # Recipes
//
// A recipe is a static, ordered list of source kinds. The catalog is declared
// once at package level and never mutated; no recipe references its own kind,
// so the dependency structure is a DAG by construction. The plan builder
// still rejects cycles defensively in case the catalog is ever made
// configurable.
//
// # Permission profiles
//
// Every kind carries exactly one of two profiles: private (0600) for anything
// containing key or DH material, public (0644) for certificate-only
// artifacts. The profile is applied locally after a build and propagated to
// remote and container destinations after delivery.
package artifact
