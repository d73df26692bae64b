// Package history keeps the list of recently opened and saved documents
// in a small SQLite database.
package history
