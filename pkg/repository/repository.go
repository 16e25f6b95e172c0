package repository

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/stackfetch/pkg/errors"
)

// Repository is a source of modules. Implementations are [*Maven] and
// [*Fallback].
type Repository interface {
	// ID returns a stable identifier used in logs and cache keys.
	ID() string
}

// Maven is a repository with the Maven 2 layout, served over HTTP(S) or from
// a file:// root.
type Maven struct {
	Name      string // Well-known name or the root itself
	Root      string // Base URL without trailing slash
	Snapshots bool   // Repository serves -SNAPSHOT versions
}

// ID returns the repository root.
func (m *Maven) ID() string { return m.Root }

// IsLocal reports whether the repository is on the local filesystem.
func (m *Maven) IsLocal() bool { return strings.HasPrefix(m.Root, "file://") }

// LocalPath returns the filesystem path of a file:// root.
func (m *Maven) LocalPath() string {
	return FilePath(m.Root)
}

const (
	centralRoot  = "https://repo1.maven.org/maven2"
	sonatypeRoot = "https://oss.sonatype.org/content/repositories"
	jitpackRoot  = "https://jitpack.io"
)

var (
	// Central is Maven Central.
	Central = &Maven{Name: "central", Root: centralRoot}

	// Snapshots is the fixed snapshot repository appended by [WithSnapshots].
	Snapshots = &Maven{Name: "sonatype:snapshots", Root: sonatypeRoot + "/snapshots", Snapshots: true}
)

// Default returns the repositories used when none are configured.
func Default() []Repository { return []Repository{Central} }

// Parse converts a repository string into a Repository. It accepts the
// well-known identifiers "central", "sonatype:snapshots", "sonatype:releases",
// "jitpack" and "m2Local", and http://, https:// or file:// roots.
// Anything else fails with an ErrCodeRepositoryFormat error.
func Parse(s string) (Repository, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "central":
		return Central, nil
	case "sonatype:snapshots", "snapshots":
		return Snapshots, nil
	case "sonatype:releases":
		return &Maven{Name: s, Root: sonatypeRoot + "/releases"}, nil
	case "jitpack":
		return &Maven{Name: s, Root: jitpackRoot}, nil
	case "m2Local", "m2local":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRepositoryFormat, err, "cannot locate m2Local")
		}
		return &Maven{Name: "m2Local", Root: "file://" + filepath.ToSlash(filepath.Join(home, ".m2", "repository"))}, nil
	}

	if strings.HasPrefix(s, "sonatype:") {
		name := strings.TrimPrefix(s, "sonatype:")
		if name == "" || strings.ContainsAny(name, "/:") {
			return nil, errors.New(errors.ErrCodeRepositoryFormat, "invalid sonatype repository %q", s)
		}
		return &Maven{Name: s, Root: sonatypeRoot + "/" + name, Snapshots: strings.Contains(name, "snapshot")}, nil
	}

	for _, scheme := range []string{"https://", "http://", "file://"} {
		if rest, ok := strings.CutPrefix(s, scheme); ok {
			if strings.Trim(rest, "/") == "" {
				return nil, errors.New(errors.ErrCodeRepositoryFormat, "repository %q has no location", s)
			}
			root := strings.TrimRight(s, "/")
			if err := errors.ValidateURL(root); err != nil {
				return nil, errors.Wrap(errors.ErrCodeRepositoryFormat, err, "invalid repository %q", s)
			}
			return &Maven{Name: root, Root: root}, nil
		}
	}

	return nil, errors.New(errors.ErrCodeRepositoryFormat,
		"unrecognized repository %q (expected a URL or one of central, sonatype:<name>, jitpack, m2Local)", s)
}

// ParseAll parses every string in order. All failures are reported together
// as one composite error.
func ParseAll(ss []string) ([]Repository, error) {
	out := make([]Repository, 0, len(ss))
	var errs []error
	for _, s := range ss {
		r, err := Parse(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, r)
	}
	if err := errors.Combine(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// HasSnapshot reports whether any version ends in "SNAPSHOT".
func HasSnapshot(versions ...string) bool {
	return slices.ContainsFunc(versions, func(v string) bool {
		return strings.HasSuffix(v, "SNAPSHOT")
	})
}

// WithSnapshots returns extra with the snapshot repository appended if and
// only if one of versions ends in "SNAPSHOT" and it is not already listed.
// Callers pass only the versions relevant to one sub-fetch so unrelated
// fetches do not consult the snapshot repository. extra is never modified.
func WithSnapshots(extra []Repository, versions ...string) []Repository {
	out := slices.Clone(extra)
	if !HasSnapshot(versions...) {
		return out
	}
	for _, r := range out {
		if r.ID() == Snapshots.ID() {
			return out
		}
	}
	return append(out, Snapshots)
}

// FilePath converts a file:// URL to an OS path.
func FilePath(url string) string {
	path := strings.TrimPrefix(url, "file://")
	// file:///C:/path -> C:/path
	if len(path) >= 3 && path[0] == '/' && isDriveLetter(path[1]) && path[2] == ':' {
		path = path[1:]
	}
	return filepath.Clean(filepath.FromSlash(path))
}

func isDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
