package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet/command"
	"valet/graph"
	"valet/manifest"
)

func touchFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func simplePackage(t *testing.T, root, name string, typ manifest.Type, sources ...string) manifest.Package {
	t.Helper()
	folder := filepath.Join(root, name)
	for _, s := range sources {
		touchFile(t, filepath.Join(folder, "src", s))
	}
	return manifest.Package{
		Name:        name,
		Version:     "0.1",
		LanguageStd: "c++17",
		Type:        typ,
		Folder:      folder,
	}
}

func TestMakeSkipsHeaderOnly(t *testing.T) {
	root := t.TempDir()
	hdr := simplePackage(t, root, "hdr", manifest.HeaderOnly)

	g := graph.New[manifest.Package]()
	g.Add(hdr)

	p, err := Make(g, command.Options{OutputFolder: filepath.Join(root, "build")})
	require.NoError(t, err)
	assert.Empty(t, p.CompileCommands)
	assert.Empty(t, p.LinkCommands)
}

func TestMakeRequiresSrcFolder(t *testing.T) {
	root := t.TempDir()
	noSrc := manifest.Package{Name: "app", Version: "0.1", Type: manifest.Application, Folder: filepath.Join(root, "app")}
	require.NoError(t, os.MkdirAll(noSrc.Folder, 0755))

	g := graph.New[manifest.Package]()
	g.Add(noSrc)

	_, err := Make(g, command.Options{OutputFolder: filepath.Join(root, "build")})
	require.Error(t, err)
}

func TestMakeBuildsCompileAndLinkCommands(t *testing.T) {
	root := t.TempDir()
	core := simplePackage(t, root, "core", manifest.StaticLibrary, "core.cpp")
	app := simplePackage(t, root, "app", manifest.Application, "main.cpp")

	g := graph.New[manifest.Package]()
	g.Add(core)
	g.Add(app)
	require.NoError(t, g.Depend(app, core))

	opts := command.Options{OutputFolder: filepath.Join(root, "build")}
	p, err := Make(g, opts)
	require.NoError(t, err)

	assert.Len(t, p.CompileCommands, 2)
	assert.Len(t, p.LinkCommands, 2)

	target, ok := p.ExecutableTarget("app")
	require.True(t, ok)
	assert.Equal(t, "app=0.1", target.ID())

	_, ok = p.ExecutableTarget("core")
	assert.False(t, ok)
}

func TestMakePropagatesCompileOrderLeavesFirst(t *testing.T) {
	root := t.TempDir()
	core := simplePackage(t, root, "core", manifest.StaticLibrary, "core.cpp")
	app := simplePackage(t, root, "app", manifest.Application, "main.cpp")

	g := graph.New[manifest.Package]()
	g.Add(core)
	g.Add(app)
	require.NoError(t, g.Depend(app, core))

	p, err := Make(g, command.Options{OutputFolder: filepath.Join(root, "build")})
	require.NoError(t, err)

	assert.Equal(t, "core=0.1", p.LinkCommands[0].Package.ID())
	assert.Equal(t, "app=0.1", p.LinkCommands[1].Package.ID())
}

func TestExportCompileCommandsRoundTrips(t *testing.T) {
	root := t.TempDir()
	app := simplePackage(t, root, "app", manifest.Application, "main.cpp")

	g := graph.New[manifest.Package]()
	g.Add(app)

	p, err := Make(g, command.Options{OutputFolder: filepath.Join(root, "build")})
	require.NoError(t, err)

	out := filepath.Join(root, "compile_commands.json")
	require.NoError(t, p.ExportCompileCommands(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var entries []compileDBEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Command, "clang++")
	assert.Equal(t, p.CompileCommands[0].SourceFile, entries[0].File)
}
