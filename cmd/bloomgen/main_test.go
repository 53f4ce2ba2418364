package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/keysmith/internal/dictionary"
)

func TestRunWritesLoadableFilter(t *testing.T) {
	out := filepath.Join(t.TempDir(), "weak.bloom")

	err := run([]string{"-bits", "4096", "-k", "5", "-out", out}, strings.NewReader("dragon\nmonkey12\nsupersecretpassword\n"))
	require.NoError(t, err)

	f, err := dictionary.Load(out)
	require.NoError(t, err)
	assert.Equal(t, uint64(4096), f.Bits())
	assert.Equal(t, 5, f.K())
	assert.True(t, f.Test("dragon"))
	assert.True(t, f.Test("monkey12"))
	assert.True(t, f.Test("supersecre"))
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"missing out", []string{"-bits", "4096"}},
		{"bad size", []string{"-bits", "1000", "-out", filepath.Join(dir, "a.bloom")}},
		{"bad hashes", []string{"-k", "0", "-out", filepath.Join(dir, "b.bloom")}},
		{"missing corpus", []string{"-out", filepath.Join(dir, "c.bloom"), filepath.Join(dir, "missing.txt")}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(tt.args, strings.NewReader("dragon\n")))
		})
	}
}
