package hellman

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTo_Layout(t *testing.T) {
	tbl := &Table{Index: 42, Columns: 1000, Chains: []Chain{{0, 1}, {274877906942, 12345}}}
	var buf bytes.Buffer
	n, err := tbl.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "nchain: 2, ncolumns: 1000, redu:42\n"+
		"0, 1\n"+
		"274877906942, 12345\n", buf.String())
}

func TestReadTable_RoundTrip(t *testing.T) {
	tbl, err := (&Builder{}).Table(context.Background(), NewSource(NewSeed("round"), 9), 64, 3, 255)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = tbl.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl.Index, got.Index)
	assert.Equal(t, tbl.Columns, got.Columns)
	assert.Equal(t, tbl.Chains, got.Chains)
}

func TestReadTable_Empty(t *testing.T) {
	got, err := ReadTable(strings.NewReader("nchain: 0, ncolumns: 5, redu:1\n"))
	require.NoError(t, err)
	assert.Zero(t, got.Len())
	assert.Equal(t, Index(1), got.Index)
}

func TestReadTable_Malformed(t *testing.T) {
	for name, text := range map[string]string{
		"empty":         "",
		"bad header":    "chains: 1\n0, 1\n",
		"header suffix": "nchain: 1, ncolumns: 5, redu:1 garbage\n0, 1\n",
		"header zeros":  "nchain: 01, ncolumns: 5, redu:1\n0, 1\n",
		"index range":   "nchain: 1, ncolumns: 5, redu:256\n0, 1\n",
		"missing rows":  "nchain: 2, ncolumns: 5, redu:1\n0, 1\n",
		"extra rows":    "nchain: 1, ncolumns: 5, redu:1\n0, 1\n2, 3\n",
		"separator":     "nchain: 1, ncolumns: 5, redu:1\n0 1\n",
		"not a number":  "nchain: 1, ncolumns: 5, redu:1\n0, x\n",
		"out of domain": "nchain: 1, ncolumns: 5, redu:1\n274877906943, 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(text))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}
