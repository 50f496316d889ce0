package resolver

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
)

// garageRoot is <home>/.valet/garage, the content-addressed cache
// directory for cloned remote dependencies, unless override is set
// (config.Config.GaragePath), in which case override wins.
func garageRoot(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".valet", "garage"), nil
}

// CacheKey derives the cache directory name for a git dependency:
// sha1(remoteURL + "\n" + revision), hex-encoded.
func CacheKey(remoteURL, revision string) string {
	sum := sha1.Sum([]byte(remoteURL + "\n" + revision))
	return hex.EncodeToString(sum[:])
}

// CacheDir returns the absolute cache directory for a git dependency
// under root (the garage root; pass "" for the default
// <home>/.valet/garage).
func CacheDir(root, remoteURL, revision string) (string, error) {
	root, err := garageRoot(root)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, CacheKey(remoteURL, revision)), nil
}
