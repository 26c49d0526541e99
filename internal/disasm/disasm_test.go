package disasm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bhamilton-dev/chip8vm/internal/memory"
	"github.com/bhamilton-dev/chip8vm/internal/opcode"
)

func TestMnemonicKnownOpcodes(t *testing.T) {
	cases := []struct {
		hi, lo byte
		want   string
	}{
		{0x00, 0xE0, "cls"},
		{0x00, 0xEE, "ret"},
		{0x12, 0x04, "jp   0x204"},
		{0x61, 0x1C, "ld   %1, 0x1c"},
		{0x80, 0x14, "add  %0, %1"},
		{0xF2, 0x29, "fnt  %2"},
		{0xF3, 0x33, "bcd  %3"},
	}
	for _, c := range cases {
		mnem, ok := Mnemonic(opcode.Decode(c.hi, c.lo))
		require.True(t, ok, "%02x%02x should decode", c.hi, c.lo)
		require.Equal(t, c.want, mnem)
	}
}

func TestMnemonicUnknownOpcode(t *testing.T) {
	_, ok := Mnemonic(opcode.Decode(0x51, 0x21)) // 5XY1, only 5XY0 is defined
	require.False(t, ok)
}

func TestDumpCodeOnlyWalksProgramRegion(t *testing.T) {
	img := memory.New()
	rom := []byte{0x00, 0xE0, 0x12, 0x02}
	require.NoError(t, img.LoadProgram(rom))

	out := Dump(img, Registers{}, len(rom), false)
	require.True(t, strings.Contains(out, "cls"))
	require.True(t, strings.Contains(out, "jp   0x202"))
	require.False(t, strings.Contains(out, "Name      Value"))
}

func TestDumpFullIncludesHeader(t *testing.T) {
	img := memory.New()
	rom := []byte{0x00, 0xE0}
	require.NoError(t, img.LoadProgram(rom))

	regs := Registers{PC: 0x200, I: 0x050, SP: 0}
	out := Dump(img, regs, len(rom), true)
	require.True(t, strings.Contains(out, "PC        0x200"))
	require.True(t, strings.Contains(out, "cls"))
}
