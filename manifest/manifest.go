// Package manifest defines the Package value, its type enum, and the
// dependency descriptor, and parses valet.toml into them.
package manifest

import (
	"fmt"
	"path/filepath"
)

// Type is the kind of artifact a package produces.
type Type int

const (
	Application Type = iota
	StaticLibrary
	SharedLibrary
	HeaderOnly
)

func (t Type) String() string {
	switch t {
	case Application:
		return "bin"
	case StaticLibrary:
		return "lib"
	case SharedLibrary:
		return "dylib"
	case HeaderOnly:
		return "header-only"
	default:
		return "unknown"
	}
}

// parseType maps the valet.toml `type` token to a Type.
func parseType(s string) (Type, error) {
	switch s {
	case "bin":
		return Application, nil
	case "lib":
		return StaticLibrary, nil
	case "dylib":
		return SharedLibrary, nil
	case "header-only":
		return HeaderOnly, nil
	default:
		return 0, fmt.Errorf("unknown package type %q", s)
	}
}

// DependencyKind distinguishes the two DependencySpec variants.
type DependencyKind int

const (
	Local DependencyKind = iota
	Git
)

// DependencySpec is a tagged variant: a local relative path, or a git
// remote with a mandatory revision (a tag name is accepted as a
// revision alias — see Revision).
type DependencySpec struct {
	Kind DependencyKind

	// Local
	Path string

	// Git
	RemoteURL string
	Revision  string // required for Kind == Git; may hold a tag name
}

func (d DependencySpec) String() string {
	if d.Kind == Local {
		return fmt.Sprintf("{path=%s}", d.Path)
	}
	return fmt.Sprintf("{git=%s, rev=%s}", d.RemoteURL, d.Revision)
}

// Package is an immutable value describing a resolved unit of
// compilation. It is hashable by ID, which is name + "=" + version.
type Package struct {
	Name           string
	Version        string
	LanguageStd    string
	Type           Type
	PublicIncludes []string // absolute paths; transitively propagated to dependants
	Includes       []string // absolute paths; private to this package
	CompileOptions []string
	Dependencies   []DependencySpec
	Folder         string // absolute path to the package root
}

// ID returns the package's graph node identity, name + "=" + version.
func (p Package) ID() string {
	return p.Name + "=" + p.Version
}

// SrcDir is the package's source root, P/src.
func (p Package) SrcDir() string {
	return filepath.Join(p.Folder, "src")
}
