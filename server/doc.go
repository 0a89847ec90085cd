// Package server exposes the retrieval engine over HTTP: hybrid search,
// grounded question answering, and health endpoints. Invalid input is a
// client error; every other failure degrades to best-effort results.
package server
