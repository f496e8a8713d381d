package plan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ksyq12/certinstall/internal/artifact"
	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/logger"
	"github.com/ksyq12/certinstall/internal/target"
)

// Options control plan construction.
type Options struct {
	// Force marks every derived artifact for rebuild regardless of
	// timestamps. DH parameters keep their own reuse rule.
	Force bool

	// WithText adds the two text report artifacts with default locations
	// in the domain directory when the config declares none.
	WithText bool
}

// Build derives the BuildPlan for one domain: the transitive recipe closure
// of every artifact kind with a declared install target, in dependency
// order, each step annotated with its freshness decision, permission
// profile, and delivery target.
//
// Build is pure planning: it stats files but creates nothing. Precondition
// failures (missing source artifacts, certificate/key mismatch) abort before
// any step is marked, so a failed plan has no partial side effects to
// worry about.
func Build(dom *config.Domain, layout config.Layout, opts Options) (*Plan, error) {
	targets, err := resolveTargets(dom, layout, opts)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.Config("domain %s declares no install locations", dom.Name)
	}

	closure, err := dependencyClosure(targets)
	if err != nil {
		return nil, err
	}
	order := topoOrder(closure)

	if err := checkPreconditions(dom, layout, closure); err != nil {
		return nil, err
	}

	p := &Plan{Domain: dom.Name, Steps: make([]Step, 0, len(order))}
	building := make(map[artifact.Kind]bool, len(order))

	for _, k := range order {
		step := makeStep(k, dom, layout, targets)
		if k == artifact.KindDH {
			step.Generate = decideDHAction(dom, layout) == ActionBuild
		}
		step.Action = decideAction(step, building, opts)
		building[k] = step.Action == ActionBuild
		p.Steps = append(p.Steps, step)
	}

	logger.Debug("plan for %s: %d steps, %d to build", dom.Name, len(p.Steps), p.BuildCount())
	return p, nil
}

// resolveTargets classifies every declared location once, up front.
// A malformed target string fails the whole plan before anything is built.
func resolveTargets(dom *config.Domain, layout config.Layout, opts Options) (map[artifact.Kind]target.Target, error) {
	raw := make(map[artifact.Kind]string, len(dom.Locations)+2)
	for k, loc := range dom.Locations {
		raw[k] = loc
	}
	if opts.WithText {
		if _, ok := raw[artifact.KindTxtCert]; !ok {
			raw[artifact.KindTxtCert] = filepath.Join(layout.Dir, dom.Name+".cert.txt")
		}
		if _, ok := raw[artifact.KindTxtKey]; !ok {
			raw[artifact.KindTxtKey] = filepath.Join(layout.Dir, dom.Name+".key.txt")
		}
	}

	targets := make(map[artifact.Kind]target.Target, len(raw))
	for k, loc := range raw {
		tgt, err := target.Resolve(loc)
		if err != nil {
			return nil, errors.WrapDomain(errors.ErrCodeConfig, dom.Name, err)
		}
		targets[k] = tgt
	}
	return targets, nil
}

// dependencyClosure returns the set of kinds reachable from the targeted
// kinds through recipe dependencies. The static catalog is a DAG by
// construction; the cycle check is defensive in case it is ever made
// configurable.
func dependencyClosure(targets map[artifact.Kind]target.Target) (map[artifact.Kind]bool, error) {
	closure := make(map[artifact.Kind]bool)
	visiting := make(map[artifact.Kind]bool)

	var visit func(k artifact.Kind, path []artifact.Kind) error
	visit = func(k artifact.Kind, path []artifact.Kind) error {
		if closure[k] {
			return nil
		}
		if visiting[k] {
			witness := make([]string, 0, len(path)+1)
			for _, p := range path {
				witness = append(witness, string(p))
			}
			witness = append(witness, string(k))
			return errors.Cycle(strings.Join(witness, " -> "))
		}
		visiting[k] = true
		for _, dep := range artifact.Dependencies(k) {
			if err := visit(dep, append(path, k)); err != nil {
				return err
			}
		}
		visiting[k] = false
		closure[k] = true
		return nil
	}

	for _, k := range sortedKinds(targets) {
		if err := visit(k, nil); err != nil {
			return nil, err
		}
	}
	return closure, nil
}

// topoOrder orders the closure dependencies-before-dependents. Ties are
// broken by canonical kind order so plans are deterministic.
func topoOrder(closure map[artifact.Kind]bool) []artifact.Kind {
	indeg := make(map[artifact.Kind]int, len(closure))
	dependents := make(map[artifact.Kind][]artifact.Kind, len(closure))
	for k := range closure {
		for _, dep := range artifact.Dependencies(k) {
			if closure[dep] {
				indeg[k]++
				dependents[dep] = append(dependents[dep], k)
			}
		}
	}

	var ready []artifact.Kind
	for _, k := range artifact.Kinds() {
		if closure[k] && indeg[k] == 0 {
			ready = append(ready, k)
		}
	}

	order := make([]artifact.Kind, 0, len(closure))
	for len(ready) > 0 {
		k := ready[0]
		ready = ready[1:]
		order = append(order, k)

		released := make([]artifact.Kind, 0, len(dependents[k]))
		for _, dep := range dependents[k] {
			indeg[dep]--
			if indeg[dep] == 0 {
				released = append(released, dep)
			}
		}
		sort.Slice(released, func(i, j int) bool {
			return canonicalIndex(released[i]) < canonicalIndex(released[j])
		})
		ready = append(ready, released...)
	}
	return order
}

// makeStep assembles the step for one kind. Source paths always point at the
// canonical local files in the domain directory, never at install targets,
// so installing a source artifact elsewhere does not change what derived
// artifacts are built from.
func makeStep(k artifact.Kind, dom *config.Domain, layout config.Layout, targets map[artifact.Kind]target.Target) Step {
	step := Step{
		Kind:    k,
		Deps:    artifact.Dependencies(k),
		Profile: artifact.ProfileFor(k),
		Render:  artifact.IsReport(k),
	}

	for _, dep := range step.Deps {
		step.SourcePaths = append(step.SourcePaths, layout.SourcePath(dep))
	}

	if artifact.IsSource(k) && k != artifact.KindDH {
		// Provided by the ACME client; installing it is a copy.
		step.SourcePaths = []string{layout.SourcePath(k)}
	}

	if tgt, ok := targets[k]; ok {
		step.Target = &tgt
		if tgt.Remote() {
			step.OutputPath = target.StagingPath(layout.StagingDir, tgt.Raw)
		} else {
			step.OutputPath = tgt.Path
		}
		if k == artifact.KindDH {
			// Generated into the domain directory first, then copied
			// out like any other source.
			step.SourcePaths = []string{layout.DHPath}
		}
	} else {
		step.OutputPath = layout.SourcePath(k)
	}

	return step
}

// decideAction is the freshness check: a step is rebuilt when forced, when
// its output does not exist yet, when any direct source is strictly newer
// (equal timestamps count as fresh), or when a dependency is itself being
// rebuilt. Source artifacts from the ACME client are never built here, and
// DH parameters follow their own reuse rule.
func decideAction(step Step, building map[artifact.Kind]bool, opts Options) Action {
	if step.Kind == artifact.KindDH {
		if step.Generate {
			return ActionBuild
		}
		if step.Target == nil {
			return ActionSkip
		}
		// Regeneration not needed; the install copy still follows the
		// normal freshness check against the generated file.
	} else if artifact.IsSource(step.Kind) && step.Target == nil {
		return ActionSkip
	}

	if opts.Force {
		return ActionBuild
	}

	for _, dep := range step.Deps {
		if building[dep] {
			return ActionBuild
		}
	}

	out, err := os.Stat(step.OutputPath)
	if err != nil {
		return ActionBuild
	}

	for _, src := range step.SourcePaths {
		if newerThan(src, out.ModTime()) {
			return ActionBuild
		}
	}
	return ActionSkip
}

// decideDHAction applies the DH reuse rule: rebuilt whenever reuse is
// disabled, or whenever the certificate or key changed, never otherwise.
func decideDHAction(dom *config.Domain, layout config.Layout) Action {
	if !dom.ReuseDHParam {
		return ActionBuild
	}
	dh, err := os.Stat(layout.DHPath)
	if err != nil {
		return ActionBuild
	}
	if newerThan(layout.CertPath, dh.ModTime()) || newerThan(layout.KeyPath, dh.ModTime()) {
		return ActionBuild
	}
	return ActionSkip
}

// newerThan reports whether path exists and is strictly newer than t.
func newerThan(path string, t time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.ModTime().After(t)
}

func canonicalIndex(k artifact.Kind) int {
	for i, c := range artifact.Kinds() {
		if c == k {
			return i
		}
	}
	return len(artifact.Kinds())
}

func sortedKinds(targets map[artifact.Kind]target.Target) []artifact.Kind {
	out := make([]artifact.Kind, 0, len(targets))
	for k := range targets {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return canonicalIndex(out[i]) < canonicalIndex(out[j])
	})
	return out
}
