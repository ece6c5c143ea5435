// Package vault is a client for a hosted password-vault service: it
// authenticates a user, downloads and decrypts the vault blob into an
// in-memory account/share model, and sends mutations directly to the
// server. Client mutations do not fall back to a local queue: a failed
// call returns its error. internal/queue holds a durable upload queue
// with its own drainer, but Client does not enqueue into it.
//
// The cryptographic and protocol engine lives here and in this
// module's internal packages (internal/crypto, internal/blob,
// internal/api, internal/queue, internal/agent); CLI argument parsing
// and interactive prompts are a thin front-end in cmd/lpass.
package vault
