package hellman

import (
	"encoding/binary"

	"github.com/minio/sha256-simd"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Builder computes chains and tables. The zero value hashes with SHA-256 and keeps every chain.
type Builder struct {
	// Digest replaces SHA-256 as the one-way function when non-nil.
	Digest func([]byte) [32]byte
	// UniqueEnds discards any chain whose end point already occurs in the same table.
	UniqueEnds bool
}

func (b *Builder) digest() func([]byte) [32]byte {
	if b == nil || b.Digest == nil {
		return sha256.Sum256
	}
	return b.Digest
}

// Chain returns the end point reached from start after columns hash-and-reduce steps with
// reduction function r. A chain of zero columns ends where it starts.
func (b *Builder) Chain(start uint64, r Index, columns uint64) uint64 {
	return b.Walk(start, r, columns, nil)
}

// Walk is Chain, but calls visit (when non-nil) with every value the chain passes through after
// its start, in order.
func (b *Builder) Walk(start uint64, r Index, columns uint64, visit func(col, x uint64)) uint64 {
	if !inDomain(start) {
		panic("hellman: chain start outside of domain")
	}
	sum, buf := b.digest(), [8]byte{}

	x := start
	for col := uint64(0); col < columns; col++ {
		binary.LittleEndian.PutUint64(buf[:], x) /* Fixed-width little-endian, always 8 bytes. */
		x = Reduce(sum(buf[:]), r)
		if visit != nil {
			visit(col, x)
		}
	}
	return x
}
