// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialStore: Login record persistence (login_info.json)
//   - TokenExchanger: Token endpoint calls (authorization code, refresh, client credentials)
//   - Provider: Declarative provider description plus profile lookup
//   - BrowserOpener: Opens the authorization URL
//   - ConfigStore: Application settings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AttemptStore: Authorization attempt history. Without it, history is not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or provider package
package driven
