// Package transport implements the HTTP client for the platform's
// directory and messaging endpoints. Error classification happens here, on
// status codes only: the rest of the app matches typed errors, never
// response text.
package transport
