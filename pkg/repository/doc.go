// Package repository describes where artifacts are resolved from and decides
// the ordered repository list for each fetch.
//
// Order matters: the resolution engine consults repositories first to last
// and the first one that knows a module supplies it. Three sources feed the
// final list:
//
//   - repositories the user configured (parsed with [Parse])
//   - the snapshot repository, appended by [WithSnapshots] only when a
//     sub-fetch actually requests a "-SNAPSHOT" version
//   - a [Fallback] repository built from dependencies that carry a direct
//     download URL, always last
package repository
