// Package source enumerates the source files of a package.
package source

import (
	"os"
	"path/filepath"

	"valet/manifest"
)

// sourceExts are the recognized source-file extensions. Grounded on
// original_source's collect_source_files extension allowlist.
var sourceExts = map[string]bool{
	".c":   true,
	".cc":  true,
	".cpp": true,
	".cxx": true,
	".c++": true,
}

// Enumerate recursively scans pkg.SrcDir() for source files. A
// subdirectory containing its own valet.toml is a nested package and
// is not descended into — nested packages are recognized only to stop
// enumeration; their composition semantics are unspecified (left
// unimplemented, per the open question in spec.md §9).
//
// Paths returned are absolute and filepath-cleaned.
func Enumerate(pkg manifest.Package) ([]string, error) {
	root := pkg.SrcDir()

	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && manifest.Exists(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if sourceExts[filepath.Ext(path)] {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			out = append(out, abs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
