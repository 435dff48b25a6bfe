// Package docstore indexes document chunks for full-text search.
//
// The Store interface has two implementations: BleveStore runs embedded
// (persistent or memory-only) and needs no external service, MeiliStore
// talks to a Meilisearch server. Both key documents by their "id" field and
// support equality filters for scoped search and deletion.
package docstore
