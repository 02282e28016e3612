// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The authorization engine lives here: AuthorizationService runs one
// browser-based attempt per platform, TokenGate keeps stored tokens fresh,
// and CredentialsService serialises every change to the credential map.
package services
