// Package resolver walks a project's manifest tree and builds the
// resolved package dependency graph, fetching remote git dependencies
// as needed and deduplicating by canonical path.
package resolver

import (
	"os"
	"path/filepath"

	"valet/graph"
	"valet/manifest"
	"valet/verrors"
)

// workItem pairs a dependency spec with the package that declared it,
// for the work-stack resolution loop.
type workItem struct {
	dependant manifest.Package
	spec      manifest.DependencySpec
}

// Resolver walks a project folder's manifest tree into a
// Graph<Package>. Resolver is stateless across calls to Resolve
// except for the Fetcher it holds, so a single Resolver can be reused
// or parallelized across independent projects.
type Resolver struct {
	Fetcher Fetcher
}

// New returns a Resolver using the real git-backed Fetcher, caching
// clones under the default garage location.
func New() *Resolver {
	return &Resolver{Fetcher: NewGitFetcher()}
}

// NewWithGaragePath returns a Resolver whose git-backed Fetcher caches
// clones under garagePath instead of the default <home>/.valet/garage
// (config.Config.GaragePath's override). An empty garagePath behaves
// exactly like New().
func NewWithGaragePath(garagePath string) *Resolver {
	if garagePath == "" {
		return New()
	}
	return &Resolver{Fetcher: NewGitFetcherAt(garagePath)}
}

// Resolve parses the root manifest at projectFolder and resolves its
// full dependency tree into a Graph<Package>.
//
// # Algorithm
//
// Parse the root manifest; push its dependency specs onto a work
// stack paired with the depending package. Loop: pop one
// (dependant, spec); resolve spec to a local folder (canonicalize if
// Local, clone/fetch/checkout via Fetcher if Git); if that folder
// already produced a Package, reuse it, else parse its manifest; add
// the Package to the graph and the edge dependant -> resolved; push
// the resolved package's own dependency specs. Terminate when the
// stack is empty.
//
// Cycle detection is deferred to the caller's Graph.Sorted() call, per
// spec.md §4.2 ("the specification allows deferring cycle detection
// to sorted()").
//
// Grounded on original_source's package.cxx make_package_graph: a
// stack-based DFS with a resolved_packages map keyed by canonical
// folder path for dedup, built via the graph's own add+depend calls.
// That version has no git support; the Git branch below is new,
// implementing spec.md's algorithm description directly.
func (r *Resolver) Resolve(projectFolder string) (*graph.Graph[manifest.Package], error) {
	rootFolder, err := filepath.Abs(projectFolder)
	if err != nil {
		return nil, &verrors.ManifestError{Path: projectFolder, Detail: err.Error()}
	}

	root, err := manifest.Parse(rootFolder)
	if err != nil {
		return nil, err
	}

	g := graph.New[manifest.Package]()
	g.Add(root)

	// byFolder dedups by canonical resolved path (invariant I3:
	// path-idempotent resolution).
	byFolder := map[string]manifest.Package{rootFolder: root}

	var stack []workItem
	stack = append(stack, specsOf(root)...)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		folder, err := r.resolveFolder(item.dependant, item.spec)
		if err != nil {
			return nil, &verrors.UnresolvableDependency{
				DependantID: item.dependant.ID(),
				Spec:        item.spec.String(),
				Err:         err,
			}
		}

		resolved, already := byFolder[folder]
		if !already {
			resolved, err = manifest.Parse(folder)
			if err != nil {
				return nil, err
			}
			byFolder[folder] = resolved
			g.Add(resolved)
		}

		if err := g.Depend(item.dependant, resolved); err != nil {
			return nil, &verrors.UnresolvableDependency{
				DependantID: item.dependant.ID(),
				Spec:        item.spec.String(),
				Err:         err,
			}
		}

		if !already {
			stack = append(stack, specsOf(resolved)...)
		}
	}

	return g, nil
}

func specsOf(p manifest.Package) []workItem {
	items := make([]workItem, 0, len(p.Dependencies))
	for _, spec := range p.Dependencies {
		items = append(items, workItem{dependant: p, spec: spec})
	}
	return items
}

func (r *Resolver) resolveFolder(dependant manifest.Package, spec manifest.DependencySpec) (string, error) {
	switch spec.Kind {
	case manifest.Local:
		folder := filepath.Clean(spec.Path)
		if !filepath.IsAbs(spec.Path) {
			abs, err := filepath.Abs(filepath.Join(dependant.Folder, spec.Path))
			if err != nil {
				return "", err
			}
			folder = abs
		}
		if _, err := os.Stat(folder); err != nil {
			return "", err
		}
		return folder, nil
	case manifest.Git:
		return r.Fetcher.Fetch(spec.RemoteURL, spec.Revision)
	default:
		return "", &verrors.ManifestError{Detail: "unknown dependency kind"}
	}
}
