// Package plan assembles compile and link commands from a resolved
// package graph and exports them as a compilation database.
package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"valet/command"
	"valet/graph"
	"valet/manifest"
	"valet/source"
	"valet/verrors"
)

// Plan is the ordered pair of command lists derived from a resolved
// package graph, prior to optimization (pruning).
type Plan struct {
	PackageGraph      *graph.Graph[manifest.Package]
	CompileCommands   []command.CompileCommand
	LinkCommands      []command.LinkCommand
	ExecutableTargets map[string]manifest.Package // name -> Package, for `valet run`
	Options           command.Options
}

// Make builds a Plan from a resolved package graph: for every
// non-HeaderOnly package (per invariant I6, HeaderOnly packages
// contribute zero compile and zero link commands), in topological
// order, enumerate its sources, synthesize one CompileCommand per
// source, and group them into one LinkCommand for the package.
//
// Grounded on original_source's BuildPlan::make + BuildPlan::group:
// sort the graph first (so iteration below is leaves-first, matching
// invariant I5 for the resulting LinkCommands list), skip HeaderOnly,
// require folder/src to exist, build one CompileCommand per source
// file using the package's full transitive-dependency snapshot
// (package_graph.all_deps), then one LinkCommand per package from the
// accumulated object files.
func Make(pkgGraph *graph.Graph[manifest.Package], opts command.Options) (*Plan, error) {
	order, err := pkgGraph.Sorted()
	if err != nil {
		return nil, err
	}

	p := &Plan{
		PackageGraph:      pkgGraph,
		ExecutableTargets: make(map[string]manifest.Package),
		Options:           opts,
	}

	for _, pkg := range order {
		if pkg.Type == manifest.HeaderOnly {
			continue
		}

		if _, err := os.Stat(pkg.SrcDir()); err != nil {
			return nil, &verrors.MissingSourceFolder{PackageID: pkg.ID(), Folder: pkg.Folder}
		}

		sources, err := source.Enumerate(pkg)
		if err != nil {
			return nil, &verrors.IOError{Op: "enumerate-sources", Path: pkg.SrcDir(), Err: err}
		}

		deps := pkgGraph.AllDeps(pkg)

		var objects []string
		for _, src := range sources {
			cc := command.NewCompileCommand(pkg, src, deps, opts)
			p.CompileCommands = append(p.CompileCommands, cc)
			objects = append(objects, cc.ObjectFile)
		}

		p.LinkCommands = append(p.LinkCommands, command.NewLinkCommand(pkg, objects, deps, opts))

		if pkg.Type == manifest.Application {
			p.ExecutableTargets[pkg.Name] = pkg
		}
	}

	return p, nil
}

// ExecutableTarget looks up an Application package by name, for
// `valet run`.
func (p *Plan) ExecutableTarget(name string) (manifest.Package, bool) {
	pkg, ok := p.ExecutableTargets[name]
	return pkg, ok
}

// compileDBEntry is one row of compile_commands.json.
type compileDBEntry struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
}

// ExportCompileCommands writes <project>/compile_commands.json: a
// JSON array of {directory, command, file}, one per CompileCommand,
// with quotes in the rendered command escaped.
//
// Grounded on original_source's BuildPlan::export_compile_commands
// (same three fields; quote-escaping via regex there, via simple
// string replacement here). Each literal quote in the rendered
// command is first backslash-escaped, matching the original's extra
// escaping; encoding/json then applies its own JSON-level escaping on
// top of that.
func (p *Plan) ExportCompileCommands(outPath string) error {
	entries := make([]compileDBEntry, 0, len(p.CompileCommands))
	for _, cc := range p.CompileCommands {
		entries = append(entries, compileDBEntry{
			Directory: filepath.Dir(cc.SourceFile),
			Command:   strings.ReplaceAll(cc.String(), `"`, `\"`),
			File:      cc.SourceFile,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0644)
}
