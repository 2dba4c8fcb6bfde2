package hellman

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Artifact describes one table persisted by a Writer.
type Artifact struct {
	Index    Index
	Path     string
	Size     int64
	Checksum uint64 /* XXH3-64 of the artifact's bytes. */
}

// Writer persists tables as "<index>.txt" files under Dir. A Writer may be shared by any number
// of goroutines as long as they write tables with distinct indices.
type Writer struct {
	Dir  string
	Perm os.FileMode /* 0644 when zero */
}

// Filename is the artifact name of the table built with reduction function r.
func Filename(r Index) string { return strconv.Itoa(int(r)) + ".txt" }

// Write persists t, replacing any earlier artifact with the same index. The table is written to
// a temporary file in Dir and renamed into place, so a failed write never leaves a partial table
// under the final name.
func (w *Writer) Write(ctx context.Context, t *Table) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	/* MkdirAll succeeds when the directory already exists, including when another worker won
	the race to create it. */
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create table directory: %w", err)
	}
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}

	dest := filepath.Join(w.Dir, Filename(t.Index))
	tmp, err := os.CreateTemp(w.Dir, ".tmp-"+Filename(t.Index)+"-*")
	if err != nil {
		return Artifact{}, fmt.Errorf("create %s: %w", dest, err)
	}
	fail := func(err error) (Artifact, error) {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return Artifact{}, fmt.Errorf("write %s: %w", dest, err)
	}

	h := xxh3.New()
	bw := bufio.NewWriterSize(io.MultiWriter(tmp, h), 64<<10)
	n, err := t.WriteTo(bw)
	if err == nil {
		err = bw.Flush()
	}
	if err == nil {
		err = tmp.Sync()
	}
	if err == nil {
		err = tmp.Chmod(perm)
	}
	if err != nil {
		return fail(err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return Artifact{}, fmt.Errorf("write %s: %w", dest, err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return Artifact{}, fmt.Errorf("rename %s: %w", dest, err)
	}
	return Artifact{Index: t.Index, Path: dest, Size: n, Checksum: h.Sum64()}, nil
}
