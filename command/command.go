// Package command models a single compile or link invocation as a
// pure data record and renders it deterministically to a command
// string. Rendering is a total function on the variant: Compile and
// Link share only "render to a string", represented here as two
// distinct struct types rather than a shared interface hierarchy.
package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"valet/manifest"
	"valet/platform"
	"valet/verrors"
)

// Options carries build-wide settings that affect command rendering
// but aren't per-package: release vs. debug, and the output folder
// root for this build (<project>/build/<release|debug>).
type Options struct {
	Release      bool
	OutputFolder string
	Family       platform.Family
}

// CompileCommand describes one source-file compilation.
type CompileCommand struct {
	Package             manifest.Package
	SourceFile           string
	ObjectFile           string
	DependenciesSnapshot []manifest.Package // transitive deps at the time this command was built
	Options              Options
}

// DepfilePath is the path of the Make-style depfile the compiler
// writes alongside ObjectFile (same stem, .d extension).
func (c CompileCommand) DepfilePath() string {
	return strings.TrimSuffix(c.ObjectFile, filepath.Ext(c.ObjectFile)) + ".d"
}

// NewCompileCommand builds the CompileCommand for source file s in
// package p, given p's transitive dependencies and build options. The
// object file path is <opts.OutputFolder>/<p.ID()>/<basename(s)>.o.
func NewCompileCommand(p manifest.Package, s string, deps []manifest.Package, opts Options) CompileCommand {
	base := filepath.Base(s)
	obj := filepath.Join(opts.OutputFolder, p.ID(), base+".o")
	return CompileCommand{
		Package:              p,
		SourceFile:           s,
		ObjectFile:           obj,
		DependenciesSnapshot: deps,
		Options:              opts,
	}
}

// String renders the compile invocation.
//
// Grounded on original_source's CompileCommand::string(): base
// `clang++ -Wall -MD -c <src> -std=<std>`, conditional shared-library
// export-macro defines, -O3 for release or -g -O0 for debug, then
// compile_options, then -I for every private include, then -I for
// every public_include of every transitive dependency, and finally
// `-o <obj>`.
func (c CompileCommand) String() string {
	p := c.Package
	var parts []string
	parts = append(parts, "clang++", "-Wall", "-MD", "-c", c.SourceFile)

	if p.LanguageStd != "" {
		parts = append(parts, "-std="+p.LanguageStd)
	}

	if p.Type == manifest.SharedLibrary && c.Options.Family == platform.Windows {
		upper := strings.ToUpper(p.Name)
		parts = append(parts, "-D"+upper+"_SHARED", "-D"+upper+"_EXPORTS")
	}

	if c.Options.Release {
		parts = append(parts, "-O3")
	} else {
		parts = append(parts, "-g", "-O0")
		if c.Options.Family == platform.Windows {
			parts = append(parts, "-gcodeview")
		}
	}

	parts = append(parts, p.CompileOptions...)

	for _, inc := range p.Includes {
		parts = append(parts, "-I"+inc)
	}
	for _, dep := range c.DependenciesSnapshot {
		for _, inc := range dep.PublicIncludes {
			parts = append(parts, "-I"+inc)
		}
	}

	parts = append(parts, "-o", c.ObjectFile)

	return strings.Join(parts, " ")
}

// LinkCommand describes linking or archiving one package's objects
// into its final artifact.
type LinkCommand struct {
	Package              manifest.Package
	ObjectFiles          []string
	DependenciesSnapshot []manifest.Package
	BinaryPath           string // without extension; String() appends the platform suffix
	Options              Options
}

// NewLinkCommand builds the LinkCommand for package p. binaryPath is
// <opts.OutputFolder>/<p.ID()>/<p.Name>, matching
// original_source: binary_path = output_folder/package.id/package.name.
func NewLinkCommand(p manifest.Package, objects []string, deps []manifest.Package, opts Options) LinkCommand {
	return LinkCommand{
		Package:              p,
		ObjectFiles:          objects,
		DependenciesSnapshot: deps,
		BinaryPath:           filepath.Join(opts.OutputFolder, p.ID(), p.Name),
		Options:              opts,
	}
}

// String renders the link or archive invocation, or returns an error
// if p depends on a SharedLibrary — linking against a shared library
// is currently unsupported and must fail hard, per spec.md §4.4 and
// original_source's command.cxx (an explicit fatal error there).
//
// Grounded on original_source's LinkCommand::string(): Application
// and SharedLibrary share a linker-driver branch (objects, then each
// dependency's expected static-archive path, -shared for
// SharedLibrary, -o binary_path+ext); StaticLibrary uses the
// platform's static-archiver-prefix branch.
func (c LinkCommand) String() (string, error) {
	p := c.Package
	f := c.Options.Family

	for _, dep := range c.DependenciesSnapshot {
		if dep.Type == manifest.SharedLibrary {
			return "", &verrors.UnsupportedLinkage{PackageID: p.ID(), DependencyID: dep.ID()}
		}
	}

	if p.Type == manifest.StaticLibrary {
		parts := f.StaticArchiverPrefix(c.BinaryPath)
		parts = append(parts, c.ObjectFiles...)
		return strings.Join(parts, " "), nil
	}

	var parts []string
	parts = append(parts, "clang++")
	parts = append(parts, c.ObjectFiles...)

	for _, dep := range c.DependenciesSnapshot {
		archive := filepath.Join(c.Options.OutputFolder, dep.ID(), dep.Name) + f.StaticExt()
		parts = append(parts, archive)
	}

	if p.Type == manifest.SharedLibrary {
		parts = append(parts, "-shared")
		switch f {
		case platform.Linux:
			parts = append(parts, fmt.Sprintf("-Wl,-soname,%s%s", p.Name, f.SharedExt()))
		case platform.Darwin:
			parts = append(parts, "-Wl,-undefined,dynamic_lookup")
		}
	}

	ext := f.ExecutableExt()
	if p.Type == manifest.SharedLibrary {
		ext = f.SharedExt()
	}
	parts = append(parts, "-o", c.BinaryPath+ext)

	return strings.Join(parts, " "), nil
}
