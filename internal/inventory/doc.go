// Package inventory exposes the collection tracker's boundary operations.
//
// Service assembles the master catalog index, the collection ledger, and the
// progress aggregator on top of their file-backed stores, and classifies
// failures into business errors (structured results for the caller) versus
// infrastructure errors (schema or I/O faults that abort the request).
package inventory
