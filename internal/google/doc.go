// Package google drives the delegated-authorization handshake against
// Google's OAuth2 provider and resolves stored credentials into
// authenticated HTTP clients for Google API calls.
//
// The flow is stateless across requests: beginning authorization issues a
// redirect URL carrying an opaque state parameter, completing it exchanges
// the returned code for a token pair, learns the user's canonical email
// from the userinfo endpoint, and persists the credential. Subsequent
// requests resolve the stored credential into a token source that rotates
// the access token on demand and writes rotated tokens back to the store.
package google
