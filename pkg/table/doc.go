// Package table models the rectangular input a drill-down tree is built from.
//
// A [Table] holds one or more categorical grouping columns and zero or more
// measure columns, aligned by row index. Category cells are raw values as the
// data source produced them (strings, numbers, bools, times or nil); measure
// cells are anything [ParseNumber] can turn into a float64.
//
// # Blank and Empty
//
// Data sources distinguish a missing value from an explicit empty string.
// [Normalize] keeps that distinction: nil becomes a [KindBlank] value labeled
// [BlankLabel], "" becomes a [KindEmpty] value labeled [EmptyLabel]. Grouping
// compares (kind, text) pairs, so a literal "(Blank)" string never merges with
// a real blank.
//
// # Fingerprints
//
// [Table.Fingerprint] hashes a deterministic msgpack encoding of the table with
// xxhash. Two updates with identical input produce the same fingerprint, which
// is how the visual model skips redundant rebuilds.
package table
