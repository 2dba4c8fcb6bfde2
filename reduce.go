package hellman

import "encoding/binary"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Reduce maps a 256-bit digest back into the domain using reduction function r. The digest is
// read as four little-endian words (word 0 least significant) and the whole 256-bit state is
// rotated right by r bits: first by r/64 whole words, then by r%64 bits across word boundaries.
// The low 38 bits of the rotated state are kept.
func Reduce(digest [32]byte, r Index) uint64 {
	k, s := int(r)>>6, uint(r)&63

	lo := binary.LittleEndian.Uint64(digest[(k&3)<<3:]) >> s
	if s != 0 {
		/* Only the word above contributes bits to the low word of the rotated state. */
		lo |= binary.LittleEndian.Uint64(digest[((k+1)&3)<<3:]) << (64 - s)
	}
	x := lo & mask
	if x == Domain {
		x = 0
	}
	if !inDomain(x) {
		panic("hellman: reduced value outside of domain")
	}
	return x
}
