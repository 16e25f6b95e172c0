package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Keyer builds cache keys. Swapping the Keyer changes the key space without
// touching the engine.
type Keyer interface {
	// POMKey identifies the parsed project model of module at version in the
	// repository rooted at repo.
	POMKey(repo, module, version string) string
	// MissKey records that url was looked up and does not exist.
	MissKey(url string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// POMKey returns "pom:<sha256 of repo, module and version>".
func (DefaultKeyer) POMKey(repo, module, version string) string {
	return "pom:" + Hash([]byte(strings.Join([]string{repo, module, version}, "\x00")))
}

// MissKey returns "miss:<url>".
func (DefaultKeyer) MissKey(url string) string { return "miss:" + url }

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
