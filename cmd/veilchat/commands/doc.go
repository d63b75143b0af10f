// Package commands defines the veilchat CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init         Create local encryption keys and publish the public half
//   - fingerprint  Print the local public-key fingerprint
//   - status       Report key age and whether rotation is due
//   - rotate       Replace the key pair and republish the public half
//   - send         Encrypt and send a message to a user
//   - recv         Fetch a conversation and decrypt what can be decrypted
//   - logout       Erase local keys and the public-key cache
//
// # Implementation
//
// The root command loads configuration and builds the dependency graph
// (secure store, transport client, services) before any subcommand runs,
// so handlers share one app context.
package commands
