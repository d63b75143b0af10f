// Package app wires application dependencies for the CLI.
//
// It loads Config via viper, then builds the concrete store, transport
// client and high-level services, exposing them via the Wire struct for
// commands to use.
package app
