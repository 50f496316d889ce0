package verrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifestErrorIsSentinel(t *testing.T) {
	err := &ManifestError{Path: "valet.toml", Detail: "missing name"}
	assert.True(t, errors.Is(err, ErrManifest))

	var me *ManifestError
	assert.True(t, errors.As(err, &me))
	assert.Equal(t, "valet.toml", me.Path)
}

func TestCycleErrorIsSentinel(t *testing.T) {
	err := &CycleError{From: "a=1.0", To: "b=1.0"}
	assert.True(t, errors.Is(err, ErrCycle))
}

func TestUnsupportedLinkageMessage(t *testing.T) {
	err := &UnsupportedLinkage{PackageID: "app=1.0", DependencyID: "libgui=1.0"}
	assert.Contains(t, err.Error(), "app=1.0")
	assert.Contains(t, err.Error(), "libgui=1.0")
	assert.True(t, errors.Is(err, ErrUnsupportedLinkage))
}

func TestIOErrorWrapsUnderlyingAndSentinel(t *testing.T) {
	underlying := errors.New("stale handle")
	err := &IOError{Op: "stat", Path: "/tmp/x.o", Err: underlying}
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, underlying))
}

func TestFetchErrorWrapsUnderlyingAndSentinel(t *testing.T) {
	underlying := errors.New("connection refused")
	err := &FetchError{RemoteURL: "https://example/repo", Stage: "clone", Err: underlying}
	assert.True(t, errors.Is(err, ErrFetch))
	assert.True(t, errors.Is(err, underlying))
}

func TestCommandFailureMessage(t *testing.T) {
	err := &CommandFailure{PackageID: "hello=0.1", Command: "clang++ ...", ExitCode: 1}
	assert.Contains(t, err.Error(), "hello=0.1")
	assert.True(t, errors.Is(err, ErrCommandFailure))
}
