// Package message orchestrates encryption before send and decryption after
// fetch. It tolerates missing keys and corrupted ciphertext without
// breaking the chat flow: every envelope resolves to a tagged state.
package message
