package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/p7r0x7/hellman"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestGenerate_WritesTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tables")
	metrics := filepath.Join(t.TempDir(), "tablegen.prom")
	c := config{Tables: 2, Chains: 3, Columns: 5, Path: dir, Seed: "scenario", Verify: true,
		Metrics: metrics, LogLevel: "info"}

	var out bytes.Buffer
	require.Equal(t, success, generate(context.Background(), c, &out, quietLogger))
	assert.Contains(t, out.String(), "tables generated successfully")
	assert.Equal(t, 2, strings.Count(out.String(), "redu "))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		tbl, err := hellman.OpenTable(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		assert.Equal(t, hellman.Filename(tbl.Index), e.Name())
		assert.Equal(t, uint64(3), tbl.Len())
	}

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `hellman_tables_total{outcome="written"} 2`)
	assert.Contains(t, string(prom), "hellman_hash_steps_total 30")
}

func TestGenerate_SameSeedSameBytes(t *testing.T) {
	dirs := [2]string{t.TempDir(), t.TempDir()}
	for _, dir := range dirs {
		c := config{Tables: 3, Chains: 10, Columns: 4, Path: dir, Seed: "again", LogLevel: "info"}
		require.Equal(t, success, generate(context.Background(), c, io.Discard, quietLogger))
	}
	entries, err := os.ReadDir(dirs[0])
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		a, err := os.ReadFile(filepath.Join(dirs[0], e.Name()))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirs[1], e.Name()))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestGenerate_UnwritablePath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	c := config{Tables: 2, Chains: 1, Columns: 1, Path: file, LogLevel: "info"}
	var out bytes.Buffer
	assert.Equal(t, failure, generate(context.Background(), c, &out, quietLogger))
	assert.Equal(t, 2, strings.Count(out.String(), "failed"))
}
