// Package install copies a built executable into valet's install
// directory, following the original installer's single responsibility:
// build, then copy the resulting binary somewhere on PATH.
package install

import (
	"os"
	"path/filepath"

	"valet/util"
)

// DefaultPath returns ~/.valet/bin, matching
// original_source's get_default_install_path (platform::get_home_dir() / ".valet" / "bin").
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".valet", "bin")
	}
	return filepath.Join(home, ".valet", "bin")
}

// Binary copies the binary at sourcePath into installDir (created if
// necessary), overwriting any existing file of the same name, and
// returns the destination path.
//
// Grounded on original_source's install_local_package: create the
// install directory, then copy with overwrite semantics.
func Binary(sourcePath, installDir string) (string, error) {
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return "", err
	}

	dest := filepath.Join(installDir, filepath.Base(sourcePath))
	if err := util.CopyFile(sourcePath, dest); err != nil {
		return "", err
	}

	if err := os.Chmod(dest, 0755); err != nil {
		return "", err
	}

	return dest, nil
}
