// Package directory resolves counterpart public keys, caching them in
// memory per session. The cache is read-mostly; entries live until logout
// clears them wholesale or a caller invalidates a single peer.
package directory
