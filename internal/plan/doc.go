// Package plan derives the per-domain BuildPlan: which artifacts need to be
// (re)built this run, from what, in what order, and where they go.
//
// # Algorithm
//
// Starting from the artifact kinds with a declared install location, the
// builder pulls in recipe dependencies transitively (each kind planned once,
// no matter how many targets depend on it), orders the result
// dependencies-before-dependents, and decides per step whether it is stale.
//
// # Freshness
//
// A step is rebuilt when its output does not exist, when any direct source
// file is strictly newer than the output (equal timestamps count as fresh),
// or when one of its dependencies is being rebuilt this run. --force rebuilds
// everything with work to do. DH parameters are the exception: they are
// regenerated when REUSE_DHPARAM is disabled or when the certificate or key
// changed, never otherwise.
//
// # Failure semantics
//
// Missing ACME source artifacts and certificate/key mismatch are detected up
// front and abort the plan before any artifact is touched. A plan is derived
// fresh on every invocation and never cached.
package plan
