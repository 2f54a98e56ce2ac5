// Package badger implements storage.EmbeddingCache on BadgerDB.
package badger
