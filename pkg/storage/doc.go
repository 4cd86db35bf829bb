// Package storage persists collection runs as JSON artifacts.
//
// Each run gets its own directory named after the subject and collection
// time, holding a single data.json. The artifact round-trips losslessly:
// everything written, including raw item metadata, is recovered on read.
// Artifacts are read-only once written; repeated downloads for the same
// subject produce new directories rather than merging.
package storage
