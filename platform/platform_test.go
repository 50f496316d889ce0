package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinuxSuffixes(t *testing.T) {
	assert.Equal(t, ".a", Linux.StaticExt())
	assert.Equal(t, ".so", Linux.SharedExt())
	assert.Equal(t, "", Linux.ExecutableExt())
}

func TestDarwinSuffixes(t *testing.T) {
	assert.Equal(t, ".a", Darwin.StaticExt())
	assert.Equal(t, ".dylib", Darwin.SharedExt())
	assert.Equal(t, "", Darwin.ExecutableExt())
}

func TestWindowsSuffixes(t *testing.T) {
	assert.Equal(t, ".lib", Windows.StaticExt())
	assert.Equal(t, ".dll", Windows.SharedExt())
	assert.Equal(t, ".exe", Windows.ExecutableExt())
}

func TestStaticArchiverPrefix(t *testing.T) {
	assert.Equal(t, []string{"ar", "r", "out.a"}, Linux.StaticArchiverPrefix("out"))
	assert.Equal(t, []string{"ld", "-r", "-o", "out.a"}, Darwin.StaticArchiverPrefix("out"))
	assert.Equal(t, []string{"lld-link", "-lib", "/out:out.lib"}, Windows.StaticArchiverPrefix("out"))
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "a/b/c", Linux.SanitizePath("a/b/c"))
	assert.Equal(t, "a/b/c", Windows.SanitizePath(`a\b\c`))
}

func TestDefaultWorkersAtLeastOne(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}
