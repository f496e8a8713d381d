package plan

import (
	"github.com/ksyq12/certinstall/internal/artifact"
	"github.com/ksyq12/certinstall/internal/target"
)

// Action is the freshness decision for one step.
type Action string

// Step actions.
const (
	ActionBuild Action = "BUILD"
	ActionSkip  Action = "SKIP"
)

// Step is one node of a BuildPlan: a single artifact, its inputs, where it
// is materialized, and how it leaves the machine.
type Step struct {
	// Kind identifies the artifact.
	Kind artifact.Kind

	// Deps are the direct recipe dependencies, in recipe order.
	Deps []artifact.Kind

	// SourcePaths are the local files this step consumes, in recipe
	// order. Empty for source artifacts provided by the ACME client.
	SourcePaths []string

	// OutputPath is where the artifact is materialized locally: the
	// install path for local targets, the staging path for remote and
	// container targets, or the domain-directory file for plain sources.
	OutputPath string

	// Target is the resolved installation destination, nil when the kind
	// is only present as a dependency.
	Target *target.Target

	// Profile is the permission/ownership profile applied after a build.
	Profile artifact.Profile

	// Generate marks the DH parameter step, which is produced by openssl
	// rather than by concatenating sources.
	Generate bool

	// Render marks the text report steps, which decode their sources
	// instead of concatenating them.
	Render bool

	// Action is the freshness decision: BUILD or SKIP.
	Action Action
}

// Delivered reports whether the step has a remote or container destination.
func (s Step) Delivered() bool {
	return s.Target != nil && s.Target.Remote()
}

// Plan is the ordered build plan for one domain. Steps are in dependency
// order: every step appears after all of its dependencies.
type Plan struct {
	Domain string
	Steps  []Step
}

// Step returns the step for kind k, if present.
func (p *Plan) Step(k artifact.Kind) (Step, bool) {
	for _, s := range p.Steps {
		if s.Kind == k {
			return s, true
		}
	}
	return Step{}, false
}

// Kinds returns the planned kinds in plan order.
func (p *Plan) Kinds() []artifact.Kind {
	out := make([]artifact.Kind, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.Kind)
	}
	return out
}

// BuildCount returns the number of steps marked BUILD.
func (p *Plan) BuildCount() int {
	n := 0
	for _, s := range p.Steps {
		if s.Action == ActionBuild {
			n++
		}
	}
	return n
}
