// Package registry persists processing records in SQLite so re-runs can
// skip documents whose content has not changed.
//
// The driver is selected at build time: the default pure Go build uses
// modernc.org/sqlite, the cgo_sqlite tag switches to mattn/go-sqlite3.
package registry
