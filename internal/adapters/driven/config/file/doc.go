// Package file provides file-based configuration adapters.
//
// Adapters:
//   - ConfigStore: TOML-based settings storage (settings.toml)
//   - LoadClientConfigs: config.json client credentials with per-provider validation
//   - LoadEnvironment: TUNEBRIDGE_* environment variables
package file
