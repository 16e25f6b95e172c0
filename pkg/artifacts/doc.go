// Package artifacts assembles everything a build needs on disk: the user's
// dependencies, the Scala toolchain, compiler and javac plugins, stub and
// runner jars, into one [Bundle].
//
// A [Runner] performs the work in two phases. Toolchain fetches (compiler,
// compiler plugins, Scala.js and Scala Native CLIs) run concurrently first,
// since the toolchain decides which extra dependencies join the main set.
// The main dependency set, javac plugins, stubs and runner are then fetched
// concurrently. Completion order never affects the result: every list in the
// bundle follows a fixed merge order.
//
// Every sub-fetch applies the caller's [fetch.Recover] policy. A recovered
// failure leaves that part of the bundle empty; an unrecovered one cancels
// the phase and Run returns the failures without a bundle.
//
// Classpaths are derived from the stored lists on every call rather than
// stored, so they cannot drift from the artifacts they describe.
package artifacts
