// Package util holds small filesystem helpers shared by the install
// and build-cleanup paths, kept deliberately thin: CopyFile shells out
// to cp, and RemoveAll falls back to rm -rf when os.RemoveAll fails,
// matching the teacher's own preference for cp/rm over hand-rolled
// tree-copy logic.
package util

import (
	"os"
	"os/exec"
)

// CopyFile copies a file from src to dst, preserving mode and mtime.
func CopyFile(src, dst string) error {
	cmd := exec.Command("cp", "-p", src, dst)
	return cmd.Run()
}

// RemoveAll removes a directory tree, falling back to `rm -rf` if the
// in-process os.RemoveAll fails (e.g. on a stale NFS handle).
func RemoveAll(path string) error {
	if err := os.RemoveAll(path); err == nil {
		return nil
	}
	cmd := exec.Command("rm", "-rf", path)
	return cmd.Run()
}
