package hellman

import (
	"crypto/rand"
	"encoding/binary"
	"math/bits"

	"github.com/aead/chacha20/chacha"
	"github.com/minio/sha256-simd"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Source is a deterministic pseudo-random generator backed by a ChaCha8 keystream. Sources
// created from the same seed but different stream ids are independent; a Source is not safe for
// concurrent use and is meant to be owned by exactly one worker.
type Source struct {
	stream *chacha.Cipher
	buf    [64]byte
	off    int
}

var zeroes [64]byte

// NewSource keys a generator with seed and selects one of its 2^64 streams.
func NewSource(seed [32]byte, stream uint64) *Source {
	var nonce [chacha.NonceSize]byte
	binary.LittleEndian.PutUint64(nonce[:], stream)
	c, err := chacha.NewCipher(nonce[:], seed[:], 8)
	if err != nil {
		panic(err) /* Key and nonce sizes are fixed above. */
	}
	return &Source{stream: c, off: len(zeroes)}
}

// NewSeed derives a seed from an arbitrary phrase so runs can be repeated byte for byte.
func NewSeed(phrase string) [32]byte { return sha256.Sum256([]byte(phrase)) }

// RandomSeed draws a fresh seed from the operating system.
func RandomSeed() ([32]byte, error) {
	var seed [32]byte
	_, err := rand.Read(seed[:])
	return seed, err
}

// Uint64 returns the next 64 uniformly distributed bits of the stream.
func (s *Source) Uint64() uint64 {
	if s.off+8 > len(s.buf) {
		s.stream.XORKeyStream(s.buf[:], zeroes[:])
		s.off = 0
	}
	v := binary.LittleEndian.Uint64(s.buf[s.off:])
	s.off += 8
	return v
}

// Uint64n returns a uniform value in [0, n) without modulo bias. It panics if n is zero.
func (s *Source) Uint64n(n uint64) uint64 {
	if n == 0 {
		panic("hellman: Uint64n called with n == 0")
	}
	/* Lemire's multiply-and-reject; see https://arxiv.org/abs/1805.10941. */
	hi, lo := bits.Mul64(s.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(s.Uint64(), n)
		}
	}
	return hi
}

// Indices returns n distinct reduction indices drawn uniformly from [1, 255], in draw order.
func (s *Source) Indices(n int) []Index {
	if n < 0 || n > MaxTables {
		panic("hellman: index count outside of [0, 255]")
	}
	var pool [MaxTables]Index
	for i := range pool {
		pool[i] = Index(i + 1)
	}
	/* Partial Fisher-Yates: only the first n slots are settled. */
	for i := 0; i < n; i++ {
		j := i + int(s.Uint64n(uint64(MaxTables-i)))
		pool[i], pool[j] = pool[j], pool[i]
	}
	out := make([]Index, n)
	copy(out, pool[:n])
	return out
}
