// Package collection implements the mutable ledger of owned models.
//
// Additions validate toy numbers against the master catalog and merge on the
// (toy number, image URL) pair so colour variants of one casting stay distinct
// inventory lines. Quantity mutations floor at 1; removal is the only way to
// drop a line.
package collection
