package types

// Version is the canonical project version.
// The CLI, snapshot format, and published volume messages all report
// this constant (lockstep versioning).
//
// Note the alphabet itself carries no version marker on the wire: two
// endpoints built from different alphabet tables corrupt silently.
// Keeping every component on one version is the only defense.
const Version = "0.1.0"
