package opcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	op := Decode(0xD1, 0x25)
	require.Equal(t, uint16(0xD125), op.Value)
	require.Equal(t, byte(0xD), op.Group)
	require.Equal(t, byte(0x1), op.VX)
	require.Equal(t, byte(0x2), op.VY)
	require.Equal(t, byte(0x5), op.N)
	require.Equal(t, byte(0x25), op.NN)
	require.Equal(t, uint16(0x125), op.NNN)
}

func TestDecodeIsTotal(t *testing.T) {
	for hi := 0; hi <= 0xFF; hi++ {
		for lo := 0; lo <= 0xFF; lo += 17 {
			op := Decode(byte(hi), byte(lo))
			require.Equal(t, uint16(hi)<<8|uint16(lo), op.Value)
		}
	}
}
