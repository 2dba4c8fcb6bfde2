// Package hellman builds Hellman time-memory trade-off tables for SHA-256 over the 38-bit integer
// domain [0, 2^38-1). A table is a list of (start, end) chain pairs built with one reduction
// function; several tables built with distinct reduction functions jointly cover the domain.
package hellman

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const (
	// Domain is the exclusive upper bound of every chain value.
	Domain uint64 = 1<<38 - 1
	mask          = Domain /* Low 38 bits; the single masked value equal to Domain folds to 0. */

	// MaxTables bounds a run: there are only 255 admissible reduction functions for tables.
	MaxTables = 255
)

// Index selects one member of the reduction function family. Tables are built with indices in
// [1, 255]; index 0 is the identity rotation and is admissible to Reduce but never assigned.
type Index uint8

// Chain is one precomputed row of a table. Its length is the column count of its table.
type Chain struct {
	Start, End uint64
}

func inDomain(x uint64) bool { return x < Domain }
