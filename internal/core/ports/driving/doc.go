// Package driving defines the interfaces the CLI uses to drive the
// authorization engine: starting and observing login attempts, handing out
// valid tokens, and managing stored logins and settings.
//
// Implementations of these interfaces live in internal/core/services.
package driving
