// Package providers holds helpers shared by the OAuth provider definitions.
//
// Each provider lives in its own subpackage and implements [driven.Provider]:
//
//   - spotify: Spotify Web API (HTTP Basic client auth, show_dialog=true)
//   - osu: osu! API v2 (form client auth, identify and public scopes)
//
// A provider is declarative: endpoints, scopes, extra authorization
// parameters and the callback port pool are returned by Spec. The only
// behaviour a provider carries is client validation and profile lookup.
package providers
