// Package install executes BuildPlans: it materializes each stale artifact
// (concatenation, DH generation via openssl, or report rendering), applies
// its permission profile, hands remote and container targets to the
// matching transport, and runs the configured reload command once when
// anything changed.
//
// Execution is sequential within a domain, in dependency order. Across
// domains (install --all) a worker pool bounded by the configured
// concurrency processes independent domains in parallel; staging areas are
// domain-scoped so the workers share no mutable state.
//
// There is no rollback. Every step is idempotent (rebuilding bit-identical
// output or overwriting the same destination), so the recovery story for a
// failure mid-run is simply to run again.
package install
