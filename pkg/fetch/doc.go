// Package fetch runs one resolution request against an [engine.Engine].
//
// [Fetch] turns positioned dependency templates into concrete requests,
// appends a fallback repository for URL overrides, applies the Scala version
// pins and hands everything to the engine in a single call. Failures go
// through a caller-supplied [Recover] policy so that, for example, a template
// that needs a Scala version nobody supplied can be dropped instead of
// failing the whole build.
//
// [Classify] splits the engine's artifact list into main and sources
// entries, deduplicated by download URL.
package fetch
