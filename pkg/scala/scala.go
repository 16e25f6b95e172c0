// Package scala describes the Scala toolchain a fetch is resolved against.
//
// [Params] carries the Scala version, its binary version and the target
// platform. Dependency templates use them to compute cross-version suffixes
// such as "_2.13", "_3" or "_sjs1_2.13".
package scala

import (
	"fmt"
	"strings"
)

// PlatformKind identifies the runtime a Scala build targets.
type PlatformKind int

const (
	// JVM is the default platform. It adds no suffix to module names.
	JVM PlatformKind = iota
	// JS targets Scala.js.
	JS
	// Native targets Scala Native.
	Native
)

// String returns the lowercase platform name.
func (k PlatformKind) String() string {
	switch k {
	case JS:
		return "js"
	case Native:
		return "native"
	default:
		return "jvm"
	}
}

// ParsePlatformKind parses "jvm", "js" or "native" (case-insensitive,
// "scala.js" and "scala-native" accepted).
func ParsePlatformKind(s string) (PlatformKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jvm":
		return JVM, nil
	case "js", "scala.js", "scalajs":
		return JS, nil
	case "native", "scala-native", "scalanative":
		return Native, nil
	}
	return JVM, fmt.Errorf("unknown platform %q (expected jvm, js or native)", s)
}

// Platform is a target platform plus the platform's own version
// (Scala.js or Scala Native version; empty for the JVM).
type Platform struct {
	Kind    PlatformKind
	Version string
}

// Suffix returns the module-name suffix for platform-specific artifacts:
// "" for the JVM, "_sjs1" for Scala.js 1.x and "_native0.4" style
// (major.minor) for Scala Native.
func (p Platform) Suffix() string {
	switch p.Kind {
	case JS:
		major, _, _ := strings.Cut(p.Version, ".")
		if major == "" {
			major = "1"
		}
		return "_sjs" + major
	case Native:
		return "_native" + majorMinor(p.Version)
	default:
		return ""
	}
}

// Params holds the Scala version parameters a fetch resolves against.
type Params struct {
	Version       string
	BinaryVersion string
	Platform      Platform
}

// NewParams builds Params for version, deriving the binary version.
func NewParams(version string, platform Platform) *Params {
	return &Params{
		Version:       version,
		BinaryVersion: BinaryVersion(version),
		Platform:      platform,
	}
}

// IsScala2 reports whether the parameters describe a Scala 2 toolchain.
func (p *Params) IsScala2() bool { return strings.HasPrefix(p.Version, "2.") }

// BinaryVersion computes the binary version of a Scala version:
//
//	2.13.8    → 2.13
//	2.13.0-M5 → 2.13.0-M5 (pre-releases of 2.x are not binary compatible)
//	3.3.0     → 3
//	3.4.0-RC1 → 3
func BinaryVersion(version string) string {
	if strings.HasPrefix(version, "3.") || version == "3" {
		return "3"
	}
	if strings.HasPrefix(version, "2.") {
		if strings.ContainsAny(version, "-") {
			return version
		}
		return majorMinor(version)
	}
	return version
}

func majorMinor(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1]
	}
	return version
}
