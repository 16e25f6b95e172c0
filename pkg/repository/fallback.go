package repository

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/stackfetch/pkg/dependency"
)

// Key identifies a fallback entry.
type Key struct {
	Module  dependency.ModuleID
	Version string
}

// Entry is where a fallback module's main artifact is downloaded from.
type Entry struct {
	URL      string
	Changing bool
}

// Fallback is a synthetic, in-memory repository that only knows the
// dependencies carrying a direct URL override. It is immutable: the mapping
// it reports stays the same for its whole lifetime, which is one fetch.
type Fallback struct {
	entries map[Key]Entry
}

// NewFallback builds a fallback repository from entries. The map is copied.
func NewFallback(entries map[Key]Entry) *Fallback {
	return &Fallback{entries: maps.Clone(entries)}
}

// FallbackFor collects the URL overrides of deps into a fallback repository.
// When the same module and version appear twice, the first override wins.
func FallbackFor(deps []dependency.Resolved) *Fallback {
	entries := make(map[Key]Entry)
	for _, d := range deps {
		if d.URL == nil {
			continue
		}
		k := Key{Module: d.Module, Version: d.Version}
		if _, ok := entries[k]; ok {
			continue
		}
		entries[k] = Entry{URL: d.URL.URL, Changing: d.URL.Changing}
	}
	return &Fallback{entries: entries}
}

// ID identifies the fallback repository.
func (f *Fallback) ID() string { return "fallback" }

// Lookup returns the entry for module at version.
func (f *Fallback) Lookup(module dependency.ModuleID, version string) (Entry, bool) {
	e, ok := f.entries[Key{Module: module, Version: version}]
	return e, ok
}

// Len returns the number of entries.
func (f *Fallback) Len() int { return len(f.entries) }

// Keys returns the entry keys sorted by module then version.
func (f *Fallback) Keys() []Key {
	keys := slices.Collect(maps.Keys(f.entries))
	slices.SortFunc(keys, func(a, b Key) int {
		if c := strings.Compare(a.Module.String(), b.Module.String()); c != 0 {
			return c
		}
		return strings.Compare(a.Version, b.Version)
	})
	return keys
}
