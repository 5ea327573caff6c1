// internal/version/version.go
package version

// Version is overridden at build time via -ldflags "-X plassembler/internal/version.Version=...".
var Version = "1.6.2"
