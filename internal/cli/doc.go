// Package cli implements the cyclegen command-line interface.
//
// The CLI is built on cobra. Every command shares one [CLI] value holding
// the logger and the configuration loaded from --config (or
// ~/.config/cyclegen/config.toml when present).
//
// # Commands
//
//   - generate: run the generator and write JSON, DOT, SVG, PNG or PDF
//   - render: export a saved JSON result in other formats
//   - types: list the pattern library
//   - inspect: browse the insertion history of a saved result
//   - runs: list, show and delete archived runs
//   - serve: run the HTTP API
//   - cache: clear or locate the local result cache
//
// # Logging
//
// Logs go to stderr through charmbracelet/log; --verbose (-v) enables debug
// output. Artifacts written to stdout are never mixed with status lines.
package cli
