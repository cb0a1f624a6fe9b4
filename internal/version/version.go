// Package version contains the current version of floyd, split out so
// cmd/floyd can print it without depending on the rest of the root package.
package version

// Current is the floyd version string.
const Current = "0.1.0"
