package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"valet/verrors"
)

// ManifestFileName is the required manifest filename in every package
// root.
const ManifestFileName = "valet.toml"

// rawManifest mirrors the on-disk valet.toml shape for BurntSushi/toml
// to decode into, before validation and path resolution turn it into
// a Package.
type rawManifest struct {
	Package struct {
		Name           string   `toml:"name"`
		Version        string   `toml:"version"`
		Std            string   `toml:"std"`
		Type           string   `toml:"type"`
		Includes       []string `toml:"includes"`
		PublicIncludes []string `toml:"public_includes"`
		CompileOptions []string `toml:"compile_options"`
	} `toml:"package"`

	Dependencies map[string]rawDependency `toml:"dependencies"`
}

type rawDependency struct {
	Path string `toml:"path"`
	Git  string `toml:"git"`
	Rev  string `toml:"rev"`
	Tag  string `toml:"tag"`
}

// Parse reads and validates the valet.toml at folder/valet.toml,
// returning the Package it describes. Include paths are resolved to
// absolute paths relative to folder and validated to exist (except
// for HeaderOnly packages' own src/, which Parse does not check —
// see source.Enumerate).
//
// Grounded on original_source's parse_package_cfg: required name and
// version, includes/public_includes existence + canonicalization,
// compile_options passthrough, and a dependencies table mapping name
// to a local path or git remote — generalized here to accept either
// form per dependency, since the original has no git support to
// ground that half on.
func Parse(folder string) (Package, error) {
	path := filepath.Join(folder, ManifestFileName)

	var raw rawManifest
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Package{}, &verrors.ManifestError{Path: path, Detail: err.Error()}
	}

	if raw.Package.Name == "" {
		return Package{}, &verrors.ManifestError{Path: path, Detail: "package.name is required"}
	}
	if raw.Package.Version == "" {
		return Package{}, &verrors.ManifestError{Path: path, Detail: "package.version is required"}
	}

	typ, err := parseType(raw.Package.Type)
	if err != nil {
		return Package{}, &verrors.ManifestError{Path: path, Detail: err.Error()}
	}

	includes, err := resolveIncludes(folder, raw.Package.Includes)
	if err != nil {
		return Package{}, &verrors.ManifestError{Path: path, Detail: err.Error()}
	}
	publicIncludes, err := resolveIncludes(folder, raw.Package.PublicIncludes)
	if err != nil {
		return Package{}, &verrors.ManifestError{Path: path, Detail: err.Error()}
	}

	deps, err := resolveDependencies(raw.Dependencies, path)
	if err != nil {
		return Package{}, err
	}

	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return Package{}, &verrors.ManifestError{Path: path, Detail: err.Error()}
	}

	return Package{
		Name:           raw.Package.Name,
		Version:        raw.Package.Version,
		LanguageStd:    raw.Package.Std,
		Type:           typ,
		PublicIncludes: publicIncludes,
		Includes:       includes,
		CompileOptions: raw.Package.CompileOptions,
		Dependencies:   deps,
		Folder:         absFolder,
	}, nil
}

// resolveIncludes canonicalizes each relative include directory and
// validates that it exists.
func resolveIncludes(folder string, rel []string) ([]string, error) {
	out := make([]string, 0, len(rel))
	for _, r := range rel {
		abs := filepath.Join(folder, r)
		abs, err := filepath.Abs(abs)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("includes directory %q does not exist", r)
		}
		out = append(out, abs)
	}
	return out, nil
}

// resolveDependencies turns the raw dependencies table into ordered
// DependencySpec values, sorted by the table's dependency name since
// Go map iteration order is randomized: without this, the resolver's
// work stack would push each package's dependencies in a different
// order every run, and that non-determinism would eventually surface
// in CompileCommand.DependenciesSnapshot and compile_commands.json.
func resolveDependencies(raw map[string]rawDependency, manifestPath string) ([]DependencySpec, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]DependencySpec, 0, len(raw))
	for _, name := range names {
		d := raw[name]
		switch {
		case d.Path != "":
			out = append(out, DependencySpec{Kind: Local, Path: d.Path})
		case d.Git != "":
			rev := d.Rev
			if rev == "" {
				rev = d.Tag
			}
			if rev == "" {
				return nil, &verrors.ManifestError{
					Path:   manifestPath,
					Detail: fmt.Sprintf("dependency %q: git dependencies require rev or tag", name),
				}
			}
			out = append(out, DependencySpec{Kind: Git, RemoteURL: d.Git, Revision: rev})
		default:
			return nil, &verrors.ManifestError{
				Path:   manifestPath,
				Detail: fmt.Sprintf("dependency %q: must specify path, or git with rev/tag", name),
			}
		}
	}
	return out, nil
}

// Exists reports whether folder contains a valet.toml.
func Exists(folder string) bool {
	_, err := os.Stat(filepath.Join(folder, ManifestFileName))
	return err == nil
}
