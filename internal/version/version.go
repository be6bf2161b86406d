// Package version holds build version information.
package version

// Version is the server version, overridable at build time with
// -ldflags "-X github.com/humanloop/hitl-mcp/internal/version.Version=...".
var Version = "1.0.0"
