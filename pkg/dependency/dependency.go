package dependency

import (
	"strings"

	"github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/scala"
)

// CrossVersion selects which Scala suffix a module name receives.
type CrossVersion int

const (
	// CrossNone leaves the module name untouched ("org:name").
	CrossNone CrossVersion = iota
	// CrossBinary appends the Scala binary version ("org::name" → name_2.13).
	CrossBinary
	// CrossFull appends the full Scala version ("org:::name" → name_2.13.8).
	CrossFull
)

// Module is a module template: organization, name and suffix rules.
type Module struct {
	Org      string
	Name     string
	Cross    CrossVersion
	Platform bool // append the platform suffix (_sjs1, _native0.4) before the Scala suffix
}

// String renders the module in coordinate syntax.
func (m Module) String() string {
	sep := ":"
	switch m.Cross {
	case CrossBinary:
		sep = "::"
	case CrossFull:
		sep = ":::"
	}
	return m.Org + sep + m.Name
}

// NeedsScala reports whether resolving the module requires Scala parameters.
func (m Module) NeedsScala() bool { return m.Cross != CrossNone || m.Platform }

// Attributes are artifact qualifiers that take part in dependency equality.
type Attributes struct {
	Classifier   string
	Type         string
	Intransitive bool
}

// URLOverride is a direct download location for a dependency's main artifact.
// Changing reports whether the content behind the URL may change and should
// be re-validated by the cache.
type URLOverride struct {
	URL      string
	Changing bool
}

// Dependency is an immutable dependency template.
//
// Equality is defined over (module, version, attributes); the URL override is
// provenance for the fetch and does not distinguish dependencies. Use
// [Dependency.Equal] or compare [Dependency.Key] values rather than ==.
type Dependency struct {
	Module     Module
	Version    string
	Attributes Attributes
	URL        *URLOverride
}

// Key is the comparable identity of a Dependency.
type Key struct {
	Module     Module
	Version    string
	Attributes Attributes
}

// New creates a plain dependency "org:name:version".
func New(org, name, version string) Dependency {
	return Dependency{Module: Module{Org: org, Name: name}, Version: version}
}

// Scala creates a binary-cross-versioned dependency "org::name:version".
func Scala(org, name, version string) Dependency {
	return Dependency{Module: Module{Org: org, Name: name, Cross: CrossBinary}, Version: version}
}

// ScalaPlatform creates a platform dependency "org::name::version".
func ScalaPlatform(org, name, version string) Dependency {
	return Dependency{Module: Module{Org: org, Name: name, Cross: CrossBinary, Platform: true}, Version: version}
}

// Key returns the identity used for equality and map keys.
func (d Dependency) Key() Key {
	return Key{Module: d.Module, Version: d.Version, Attributes: d.Attributes}
}

// Equal reports whether d and o denote the same dependency.
func (d Dependency) Equal(o Dependency) bool { return d.Key() == o.Key() }

// Intransitive returns a copy of d that does not pull transitive dependencies.
func (d Dependency) Intransitive() Dependency {
	d.Attributes.Intransitive = true
	return d
}

// WithURL returns a copy of d downloaded from url instead of a repository.
func (d Dependency) WithURL(url string, changing bool) Dependency {
	d.URL = &URLOverride{URL: url, Changing: changing}
	return d
}

// String renders d in the syntax accepted by [Parse].
func (d Dependency) String() string {
	var b strings.Builder
	b.WriteString(d.Module.String())
	b.WriteByte(':')
	if d.Module.Platform {
		b.WriteByte(':')
	}
	b.WriteString(d.Version)
	if d.Attributes.Intransitive {
		b.WriteString(",intransitive")
	}
	if d.Attributes.Classifier != "" {
		b.WriteString(",classifier=" + d.Attributes.Classifier)
	}
	if d.Attributes.Type != "" {
		b.WriteString(",type=" + d.Attributes.Type)
	}
	if d.URL != nil {
		b.WriteString(",url=" + d.URL.URL)
		if !d.URL.Changing {
			b.WriteString(",changing=false")
		}
	}
	return b.String()
}

// Resolve converts the template into a concrete dependency. Platform and Scala
// suffixes are appended in that order: "org::name::1.0" on Scala.js 1 with
// Scala 2.13 becomes "org:name_sjs1_2.13:1.0".
//
// A template that needs a suffix fails with an ErrCodeMissingScalaVersion
// error when params is nil.
func (d Dependency) Resolve(params *scala.Params) (Resolved, error) {
	if d.Module.NeedsScala() && params == nil {
		return Resolved{}, errors.New(errors.ErrCodeMissingScalaVersion,
			"dependency %s requires a Scala version, but none was provided", d)
	}

	name := d.Module.Name
	if d.Module.Platform {
		name += params.Platform.Suffix()
	}
	switch d.Module.Cross {
	case CrossBinary:
		name += "_" + params.BinaryVersion
	case CrossFull:
		name += "_" + params.Version
	}

	return Resolved{
		Module:     ModuleID{Org: d.Module.Org, Name: name},
		Version:    d.Version,
		Attributes: d.Attributes,
		URL:        d.URL,
	}, nil
}
