// Package driver abstracts the graph database behind a single contract.
// The expansion pipeline only needs bulk MERGE-style upserts, a batch edge
// existence check, and neighbor reads; every backend implements exactly
// that surface and one implementation is selected at startup via
// configuration.
package driver
