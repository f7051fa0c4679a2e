// Package storage caches pipeline results in an embedded DuckDB
// database. The cache is purely derived data: every pipeline run
// rebuilds the result tables inside a transaction, and the report API
// reads from whatever run committed last. Deleting the database file
// loses nothing that a re-run cannot recompute.
package storage
