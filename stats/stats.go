// Package stats accumulates per-command compile/link timings for a
// build run and renders them into the same two-table summary the
// original CLI printed.
package stats

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Timing pairs a path (source file or binary) with how long its
// command took.
type Timing struct {
	Path     string
	Duration time.Duration
}

// BuildStats accumulates timings across a concurrent build. All
// Record* methods are safe for concurrent use, matching the teacher's
// mutex-guarded collector pattern.
//
// Grounded on original_source's BuildStats (compilation_times,
// link_times, compilation_time_s, link_time_s, total_time_s fields)
// and its to_string() rendering.
type BuildStats struct {
	mu sync.Mutex

	CompilationTimes []Timing
	LinkTimes        []Timing

	CompilationTimeS float64
	LinkTimeS        float64
	TotalTimeS       float64

	PackagesCompiled int
	PackagesLinked   int
	PackagesPruned   int
	Success          bool
}

// New returns an empty BuildStats.
func New() *BuildStats {
	return &BuildStats{}
}

// RecordCompile adds one compile timing and accumulates CompilationTimeS.
func (s *BuildStats) RecordCompile(sourceFile string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CompilationTimes = append(s.CompilationTimes, Timing{Path: sourceFile, Duration: d})
	s.CompilationTimeS += d.Seconds()
	s.PackagesCompiled++
}

// RecordLink adds one link timing and accumulates LinkTimeS.
func (s *BuildStats) RecordLink(binaryPath string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LinkTimes = append(s.LinkTimes, Timing{Path: binaryPath, Duration: d})
	s.LinkTimeS += d.Seconds()
	s.PackagesLinked++
}

// RecordPruned increments the pruned-command counter; pruned commands
// have no timing to record.
func (s *BuildStats) RecordPruned() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PackagesPruned++
}

// String renders the two-table summary: compilation times then link
// times, each sorted by duration descending, followed by the totals.
//
// Grounded on original_source's BuildStats::to_string(): fixed-width
// columns, filename-only (not full path) in each row, descending sort
// by duration, totals at the bottom.
func (s *BuildStats) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("\n")

	writeTable(&b, "Source File", "Compilation Time (s)", s.CompilationTimes)
	b.WriteString("\n")
	writeTable(&b, "Binary", "Link Time (s)", s.LinkTimes)

	fmt.Fprintf(&b, "\nTotal time: %.2f s\n", s.TotalTimeS)
	fmt.Fprintf(&b, "Compilation time: %.2f s\n", s.CompilationTimeS)
	fmt.Fprintf(&b, "Link time: %.2f s\n", s.LinkTimeS)

	return b.String()
}

func writeTable(b *strings.Builder, leftHeader, rightHeader string, timings []Timing) {
	fmt.Fprintf(b, "%-40s%30s\n", leftHeader, rightHeader)
	b.WriteString(strings.Repeat("-", 70) + "\n")

	sorted := make([]Timing, len(timings))
	copy(sorted, timings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Duration > sorted[j].Duration })

	for _, t := range sorted {
		fmt.Fprintf(b, "%-40s%30.2f\n", filepath.Base(t.Path), t.Duration.Seconds())
	}
}
