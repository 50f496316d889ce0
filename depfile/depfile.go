// Package depfile parses compiler-emitted Make-style header
// dependency files and assembles them into a graph from object files
// to their transitive source+header inputs.
package depfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"valet/graph"
	"valet/platform"
)

// EntryKind distinguishes the two DepEntry node kinds.
type EntryKind int

const (
	ObjectFile EntryKind = iota
	SourceOrHeader
)

// Entry is one node in the depfile graph: a canonicalized,
// platform-sanitized path plus its kind. Equality and hashing are by
// Path (via ID()).
type Entry struct {
	Path string
	Kind EntryKind
}

// ID implements graph.Identifiable.
func (e Entry) ID() string { return e.Path }

// Ingest reads the depfile at path (produced by -MD alongside an
// object file), adding an ObjectFile node for the left-hand side and
// an edge from it to each right-hand-side dependency (added as
// SourceOrHeader nodes), into g.
//
// Ingest is tolerant of a missing file: it is not an error, matching
// spec.md §4.5 — the object is simply left with no edges, which
// plan/optimize.go then treats as "must compile". Any other read or
// parse error is likewise recoverable: the depfile is treated as if
// absent.
//
// # Format
//
// `<object>: <source> <h1> <h2> … \` with backslash-newline
// continuations. Grounded on original_source's collect_source_deps:
// continuations are joined before tokenizing, and the parser handles
// both the common layout (object and first dependency on the same
// line, as in `a.o: a.cpp \`) and the layout where the object appears
// alone before the colon line's first token is itself a dependency.
func Ingest(path string, g *graph.Graph[Entry]) error {
	f, err := os.Open(path)
	if err != nil {
		// Missing depfile: not an error, simply no edges recorded.
		return nil
	}
	defer f.Close()

	joined, err := joinContinuations(f)
	if err != nil {
		return nil
	}

	colon := strings.IndexByte(joined, ':')
	if colon < 0 {
		return nil
	}

	objPath := Canonical(strings.TrimSpace(joined[:colon]))
	rest := strings.Fields(joined[colon+1:])

	objEntry := Entry{Path: objPath, Kind: ObjectFile}
	g.Add(objEntry)

	for _, tok := range rest {
		dep := Entry{Path: Canonical(tok), Kind: SourceOrHeader}
		g.Add(dep)
		// Depend is idempotent in effect (duplicate edges are
		// harmless for traversal purposes) but avoid them for
		// smaller graphs.
		if !hasEdge(g, objEntry, dep) {
			_ = g.Depend(objEntry, dep)
		}
	}

	return nil
}

func hasEdge(g *graph.Graph[Entry], from, to Entry) bool {
	for _, d := range g.ImmediateDeps(from) {
		if d.ID() == to.ID() {
			return true
		}
	}
	return false
}

// joinContinuations reads all lines, stripping a trailing
// backslash-newline continuation, and returns the joined content.
func joinContinuations(f *os.File) (string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		line = strings.TrimRight(line, "\r")
		if strings.HasSuffix(line, "\\") {
			line = strings.TrimSuffix(line, "\\")
			b.WriteString(line)
			b.WriteByte(' ')
			continue
		}
		b.WriteString(line)
		b.WriteByte(' ')
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Canonical resolves p to an absolute, cleaned, platform-sanitized
// (platform.SanitizePath) path, relative to the process's current
// working directory if p is relative — matching how
// a compiler records paths in a depfile relative to its own
// invocation directory. Exported so plan/optimize.go can look an
// object file up in the depfile graph by the same key Ingest used.
func Canonical(p string) string {
	fam := platform.Current()
	abs, err := filepath.Abs(p)
	if err != nil {
		return fam.SanitizePath(filepath.Clean(p))
	}
	return fam.SanitizePath(filepath.Clean(abs))
}
