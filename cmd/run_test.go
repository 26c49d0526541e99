package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadROMsNoArgsFallsBackToDemo confirms the built-in demo ROM is
// used when no paths are given.
func TestLoadROMsNoArgsFallsBackToDemo(t *testing.T) {
	roms := loadROMs(nil)
	require.Len(t, roms, 1)
}

// TestLoadROMsKeepsGoodPathsBeforeABadOne confirms a later unreadable
// path stops enumeration but does not discard ROMs already read.
func TestLoadROMsKeepsGoodPathsBeforeABadOne(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "good1.ch8")
	good2 := filepath.Join(dir, "good2.ch8")
	require.NoError(t, os.WriteFile(good1, []byte{0x00, 0xE0}, 0o644))
	require.NoError(t, os.WriteFile(good2, []byte{0x00, 0xEE}, 0o644))
	missing := filepath.Join(dir, "does-not-exist.ch8")

	roms := loadROMs([]string{good1, good2, missing})
	assert.Len(t, roms, 2, "both good ROMs should be kept despite the later bad path")
}

// TestLoadROMsAllBadYieldsEmpty confirms a first-path failure yields
// no ROMs at all, matching the exit-on-load-failure path in run.go.
func TestLoadROMsAllBadYieldsEmpty(t *testing.T) {
	roms := loadROMs([]string{filepath.Join(t.TempDir(), "nope.ch8")})
	assert.Empty(t, roms)
}
