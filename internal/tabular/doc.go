// Package tabular implements the file-backed cache both garage stores sit on.
//
// A Store binds to one CSV file with the fixed toy_number/name/year/series/
// image_url/quantity schema. Reads go through a modification-time staleness
// check so external edits to the file are picked up before the next access;
// writes rewrite the whole file atomically (temp file + rename) and adopt the
// written rows as the new snapshot without a re-read.
//
// Header validation is self-healing: when the header row deviates from the
// canonical one, rows are recovered by column name and the file is rewritten
// with the canonical header. Only a header with no recognized column at all
// surfaces ErrSchema.
//
// In-process mutations serialize on a per-store mutex. When a lock file is
// configured, Update and Save additionally hold an advisory flock so a second
// process sharing the file cannot interleave its rewrite. Without it, the
// read-modify-write cycle remains last-writer-wins across processes.
package tabular
