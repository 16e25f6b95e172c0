// Package dependency models library dependencies as users declare them and as
// the resolution engine consumes them.
//
// A [Dependency] is a template: its module name may still need a Scala binary
// version suffix ("org::name:1.0") or a platform suffix ("org::name::1.0").
// [Dependency.Resolve] turns a template into a concrete [Resolved] dependency
// for a given set of Scala parameters. Templates that need a suffix but get
// no parameters fail with a MISSING_SCALA_VERSION error so callers can decide
// to skip them instead of aborting the whole fetch.
//
// # Syntax
//
//	org:name:version                 plain Java-style module
//	org::name:version                Scala binary-version suffix (name_2.13)
//	org:::name:version               full Scala version suffix (name_2.13.8)
//	org::name::version               platform + binary suffix (name_sjs1_2.13)
//
// followed by optional comma-separated parameters:
//
//	intransitive                     do not resolve transitive dependencies
//	classifier=tests                 artifact classifier
//	type=jar                         artifact type
//	url=https://host/lib.jar         direct download URL override
//	changing=false                   URL content is immutable (default true)
package dependency
