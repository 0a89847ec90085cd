// Package indexer precomputes verse embeddings into the storage layer
// so the vector scorer has vectors to rank against at query time.
package indexer
