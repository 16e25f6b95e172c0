// Package maven resolves dependencies against Maven 2 layout repositories.
//
// Resolution is breadth-first over POM files with nearest-wins version
// selection: the first version of a module met at the shallowest depth is
// selected and later occurrences only add graph edges. Forced pins replace
// a module's version wherever it appears, including the roots.
//
// Each depth level is fetched concurrently (bounded by [Options.Workers]) and
// then processed in declaration order, so results do not depend on network
// timing.
//
// POM handling covers what the published Scala and Java ecosystem needs in
// practice:
//
//   - parent POM inheritance of properties, dependencies and
//     dependencyManagement
//   - ${...} interpolation of project and user properties
//   - test, provided, system and optional dependencies are skipped
//   - exclusions, including "*" wildcards, apply to the declaring subtree
//   - timestamped SNAPSHOT files via maven-metadata.xml
//
// BOM imports (scope "import") are not followed.
//
// Modules known only to the fallback repository are leaves: they have no POM
// and their main artifact is the override URL. When a fallback entry exists
// for a module that an ordinary repository also knows, metadata comes from the
// ordinary repository but the main artifact still comes from the override.
//
// Parsed POMs are cached through [cache.Cache]; downloaded files live under
// [Options.Dir] as <scheme>/<host>/<path>.
package maven
