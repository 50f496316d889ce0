package plan

import (
	"os"

	"valet/command"
	"valet/depfile"
	"valet/graph"
	"valet/manifest"
	"valet/stats"
	"valet/vlog"
)

// Optimize prunes a freshly-Made Plan in place, dropping compile
// commands whose object is already fresher than all its transitive
// inputs, and link commands whose package is unreachable from any
// surviving compile. Every dropped command is counted on st
// (RecordPruned) and reported through logger (Pruned), so a no-op
// rebuild's "everything pruned" outcome is visible in both the run's
// persisted stats and the 03_pruned.log file. st and logger may be
// nil; a nil logger behaves like vlog.NoOpLogger.
//
// The depfile graph is transient and rebuilt from scratch on every
// call, per spec.md's Lifecycles note.
//
// Grounded on original_source's BuildPlan::optimize: build a fresh
// Graph<DepFileEntry> by ingesting every compile command's depfile,
// drop a CompileCommand when its object has a depfile-graph node and
// has_modified_deps is false, compute packages_to_be_compiled from
// the survivors, extend via all_dependants into to_be_linked, and
// drop any LinkCommand whose package isn't in that set.
func Optimize(p *Plan, st *stats.BuildStats, logger vlog.ResultLogger) {
	if logger == nil {
		logger = vlog.NoOpLogger{}
	}

	depGraph := graph.New[depfile.Entry]()
	for _, cc := range p.CompileCommands {
		_ = depfile.Ingest(cc.DepfilePath(), depGraph)
	}

	survivingCompiles := p.CompileCommands[:0:0]
	changedPackages := make(map[string]bool)

	for _, cc := range p.CompileCommands {
		if compilePrune(cc, depGraph) {
			if st != nil {
				st.RecordPruned()
			}
			logger.Pruned(cc.SourceFile)
			continue
		}
		survivingCompiles = append(survivingCompiles, cc)
		changedPackages[cc.Package.ID()] = true
	}
	p.CompileCommands = survivingCompiles

	toBeLinked := linkPruneSet(p.PackageGraph, changedPackages)

	survivingLinks := p.LinkCommands[:0:0]
	for _, lc := range p.LinkCommands {
		if toBeLinked[lc.Package.ID()] {
			survivingLinks = append(survivingLinks, lc)
			continue
		}
		if st != nil {
			st.RecordPruned()
		}
		logger.Pruned(lc.BinaryPath)
	}
	p.LinkCommands = survivingLinks
}

// compilePrune reports whether cc can be dropped (its object is
// already up to date).
//
// # Compile pruning
//
// If the object file doesn't exist, keep. If no depfile was ingested
// for it, keep (never observed as compiled, or depfile missing/
// unreadable — both treated as "must compile"). Otherwise let H be
// the object's immediate deps in the depfile graph (the compiler's
// declared dependency set, which already includes transitive
// headers); if any h in H is missing or newer than the object, keep;
// else drop.
func compilePrune(cc command.CompileCommand, depGraph *graph.Graph[depfile.Entry]) bool {
	objInfo, err := os.Stat(cc.ObjectFile)
	if err != nil {
		return false // missing object: keep (must compile)
	}

	objEntry, ok := depGraph.Get(depfile.Canonical(cc.ObjectFile))
	if !ok {
		return false // no depfile ingested: keep
	}

	for _, h := range depGraph.ImmediateDeps(objEntry) {
		hInfo, err := os.Stat(h.Path)
		if err != nil {
			return false // missing header: keep
		}
		if hInfo.ModTime().After(objInfo.ModTime()) {
			return false // stale: keep
		}
	}

	return true // drop: up to date
}

// linkPruneSet computes T = S ∪ all_dependants(S), where S is the set
// of packages with at least one surviving compile command.
//
// # Link pruning
//
// A LinkCommand survives iff its package is in T: if a package's
// objects were all up to date and no dependant needs re-linking, its
// archive/binary need not be reproduced.
//
// This is the looser of the two policies spec.md §4.6 leaves open,
// matching original_source's actual BuildPlan::optimize behavior
// (recorded as the Open Question decision in DESIGN.md): a package
// with none of its own sources changed is still relinked if it
// depends, directly or transitively, on a package in S; it is not
// relinked merely because one of ITS dependants is in S, since
// all_dependants walks from S toward dependants, not toward
// dependencies.
func linkPruneSet(pkgGraph *graph.Graph[manifest.Package], changed map[string]bool) map[string]bool {
	toBeLinked := make(map[string]bool, len(changed))
	for id := range changed {
		toBeLinked[id] = true
	}

	for _, pkg := range pkgGraph.Nodes() {
		if !changed[pkg.ID()] {
			continue
		}
		for _, dependant := range pkgGraph.AllDependants(pkg) {
			toBeLinked[dependant.ID()] = true
		}
	}

	return toBeLinked
}
