package hellman

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// ErrFormat reports a table artifact that does not follow the text layout written by WriteTo.
var ErrFormat = errors.New("hellman: malformed table")

const headerFormat = "nchain: %d, ncolumns: %d, redu:%d"

// WriteTo writes t as UTF-8 text: one header line followed by one "start, end" line per chain,
// all numbers in decimal.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	n, err := fmt.Fprintf(bw, headerFormat+"\n", len(t.Chains), t.Columns, t.Index)
	total := int64(n)
	if err != nil {
		return total, err
	}

	line := make([]byte, 0, 32)
	for _, c := range t.Chains {
		line = strconv.AppendUint(line[:0], c.Start, 10)
		line = append(line, ',', ' ')
		line = strconv.AppendUint(line, c.End, 10)
		line = append(line, '\n')
		n, err = bw.Write(line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// ReadTable parses a table written by WriteTo. The header must be followed by exactly as many
// chain lines as it announces, each holding two domain values.
func ReadTable(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing header", ErrFormat)
	}

	var chains, columns, index uint64
	if _, err := fmt.Sscanf(sc.Text(), headerFormat, &chains, &columns, &index); err != nil {
		return nil, fmt.Errorf("%w: header %q: %v", ErrFormat, sc.Text(), err)
	}
	if canon := fmt.Sprintf(headerFormat, chains, columns, index); sc.Text() != canon {
		return nil, fmt.Errorf("%w: header %q, want %q", ErrFormat, sc.Text(), canon)
	}
	if index > MaxTables {
		return nil, fmt.Errorf("%w: reduction index %d out of range", ErrFormat, index)
	}

	t := &Table{Index: Index(index), Columns: columns, Chains: make([]Chain, 0, min(chains, 1<<20))}
	for line := uint64(2); sc.Scan(); line++ {
		if t.Len() == chains {
			return nil, fmt.Errorf("%w: line %d: more than %d chains", ErrFormat, line, chains)
		}
		a, b, ok := strings.Cut(sc.Text(), ", ")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", ErrFormat, line, sc.Text())
		}
		start, err := parseValue(a)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		end, err := parseValue(b)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		t.Chains = append(t.Chains, Chain{start, end})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if t.Len() != chains {
		return nil, fmt.Errorf("%w: header announces %d chains, found %d", ErrFormat, chains, t.Len())
	}
	return t, nil
}

// OpenTable reads the table artifact at path.
func OpenTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

func parseValue(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if !inDomain(v) {
		return 0, fmt.Errorf("value %d outside of domain", v)
	}
	return v, nil
}
