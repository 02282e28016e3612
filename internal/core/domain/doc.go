// Package domain defines the core authorization entities for Tunebridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - LoginRecord: Persisted tokens and profile for one platform
//   - CredentialMap: All login records, keyed by platform
//   - AuthStatus: The observable state of an authorization attempt
//   - AuthorizationSession: One in-flight authorization attempt
//   - ProviderSpec: Declarative description of an OAuth provider
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
