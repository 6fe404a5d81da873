// Package securestore is the confidential key/value persistence behind the
// token vault.
//
// Two implementations are provided:
//
//   - SQLiteStore: a local SQLite database (modernc.org/sqlite) whose schema is
//     managed by embedded goose migrations. Every value is sealed with
//     AES-256-GCM; the key is derived with argon2id from a passphrase and a
//     per-database random salt, and the entry key is bound as additional data
//     so ciphertexts cannot be swapped between entries.
//   - MemoryStore: a mutex-guarded map for tests and ephemeral sessions.
//
// Both implement Batcher, so multi-key writes and deletes are atomic.
//
// Get returns common.ErrNotFound for absent keys; Delete of an absent key
// succeeds.
package securestore
