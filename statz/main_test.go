package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFmtFloats(t *testing.T) {
	got := fmtFloats(1, 2.5, 12345.678, 1e9)
	fields := strings.Fields(got)
	assert.Equal(t, []string{"1", "2.500000", "12345.68", "1e+09"}, fields)
	assert.Len(t, got, 4*10)
}
