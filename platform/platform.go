// Package platform encapsulates the host-specific facts the rest of
// valet needs: file-extension suffixes for the three library kinds,
// the static-archiver command prefix, path sanitation, and CPU count.
package platform

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/unix"
)

// Family identifies a target platform family for suffix/flag purposes.
type Family int

const (
	Linux Family = iota
	Darwin
	Windows
)

// Current returns the Family of the host the build is running on.
func Current() Family {
	switch runtime.GOOS {
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return Linux
	}
}

// StaticExt is the file extension for static library archives.
func (f Family) StaticExt() string {
	if f == Windows {
		return ".lib"
	}
	return ".a"
}

// SharedExt is the file extension for shared library binaries.
func (f Family) SharedExt() string {
	switch f {
	case Windows:
		return ".dll"
	case Darwin:
		return ".dylib"
	default:
		return ".so"
	}
}

// ExecutableExt is the file extension for executables (empty outside
// Windows).
func (f Family) ExecutableExt() string {
	if f == Windows {
		return ".exe"
	}
	return ""
}

// StaticArchiverPrefix returns the leading tokens of the command used
// to build a static archive named out (without extension) from a list
// of object files, which the caller appends.
func (f Family) StaticArchiverPrefix(out string) []string {
	switch f {
	case Windows:
		return []string{"lld-link", "-lib", fmt.Sprintf("/out:%s%s", out, f.StaticExt())}
	case Darwin:
		return []string{"ld", "-r", "-o", out + f.StaticExt()}
	default:
		return []string{"ar", "r", out + f.StaticExt()}
	}
}

// SanitizePath normalizes a path for inclusion in a rendered command
// or depfile comparison. On Windows-family hosts this means
// normalizing separators to forward slashes (the toolchains valet
// targets accept both, but consistent separators keep rendered
// commands and compilation-database output stable across hosts).
// Elsewhere it is a no-op beyond trimming.
func (f Family) SanitizePath(p string) string {
	p = strings.TrimSpace(p)
	if f == Windows {
		p = strings.ReplaceAll(p, "\\", "/")
	}
	return p
}

// CPUCount returns the number of logical CPUs available, used to
// derive the default worker-pool size (max(1, cpu_count/2 - 1)).
func CPUCount() int {
	return runtime.NumCPU()
}

// DefaultWorkers returns the recommended worker-pool size per the
// concurrency model: max(1, cpu_count/2 - 1).
func DefaultWorkers() int {
	n := CPUCount()/2 - 1
	if n < 1 {
		n = 1
	}
	return n
}

// HostInfo summarizes identifying information about the build host,
// printed in --verbose banners.
type HostInfo struct {
	OS      string
	Release string
	Arch    string
	NCPU    int
}

// Info gathers HostInfo via uname(2). Best-effort: on platforms or
// under sandboxes where uname fails, the string fields are left empty
// and NCPU still reflects runtime.NumCPU().
func Info() HostInfo {
	info := HostInfo{NCPU: CPUCount()}

	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		info.OS = strings.TrimRight(string(uts.Sysname[:]), "\x00")
		info.Release = strings.TrimRight(string(uts.Release[:]), "\x00")
		info.Arch = strings.TrimRight(string(uts.Machine[:]), "\x00")
	}

	return info
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%s %s (%s), %d cpus", h.OS, h.Release, h.Arch, h.NCPU)
}
