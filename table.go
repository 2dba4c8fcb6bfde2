package hellman

import (
	"context"
	"errors"
	"fmt"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// ErrMismatch reports a stored chain whose end point cannot be reproduced from its start.
var ErrMismatch = errors.New("hellman: chain does not reproduce")

// Table is the set of chains built with a single reduction function. Chains are kept in the
// order they were built. Chains within one table may share end points unless the Builder that
// produced it filtered them.
type Table struct {
	Index   Index
	Columns uint64
	Chains  []Chain
	Merged  uint64 /* Chains discarded for repeating an end point; never persisted. */
}

// Len is the number of stored chains.
func (t *Table) Len() uint64 { return uint64(len(t.Chains)) }

// Table builds chains chains of columns columns with reduction function r. Starts are not drawn
// independently: one base x0 is drawn uniformly from the domain and chain i starts at
// (x0 + i) mod Domain. This keeps the table reproducible from x0 alone at the cost of starts that
// cluster along a residue sequence.
func (b *Builder) Table(ctx context.Context, src *Source, chains, columns uint64, r Index) (*Table, error) {
	return b.table(ctx, src.Uint64n(Domain), chains, columns, r)
}

func (b *Builder) table(ctx context.Context, x0, chains, columns uint64, r Index) (*Table, error) {
	if !inDomain(x0) {
		panic("hellman: table base outside of domain")
	}
	t := &Table{Index: r, Columns: columns, Chains: make([]Chain, 0, min(chains, 1<<20))}
	var seen map[uint64]struct{}
	if b != nil && b.UniqueEnds {
		seen = make(map[uint64]struct{}, min(chains, 1<<20))
	}

	for i := uint64(0); i < chains; i++ {
		if i&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		/* x0 and i%Domain are both below 2^38, so the sum cannot overflow. */
		start := (x0 + i%Domain) % Domain
		end := b.Chain(start, r, columns)
		if seen != nil {
			if _, dup := seen[end]; dup {
				t.Merged++
				continue
			}
			seen[end] = struct{}{}
		}
		t.Chains = append(t.Chains, Chain{start, end})
	}
	return t, nil
}

// Verify recomputes every chain of t with b and returns the first one that does not reproduce.
func (t *Table) Verify(b *Builder) error {
	for i, c := range t.Chains {
		if !inDomain(c.Start) || !inDomain(c.End) {
			return fmt.Errorf("%w: chain %d of table %d leaves the domain", ErrMismatch, i, t.Index)
		}
		if end := b.Chain(c.Start, t.Index, t.Columns); end != c.End {
			return fmt.Errorf("%w: chain %d of table %d ends at %d, stored %d",
				ErrMismatch, i, t.Index, end, c.End)
		}
	}
	return nil
}
