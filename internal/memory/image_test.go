package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPreloadsFont(t *testing.T) {
	img := New()
	dump := img.Dump()
	require.Equal(t, Font[:], dump[FontAddr:FontAddr+FontSize])
}

func TestLoadProgramRejectsOversizedROM(t *testing.T) {
	img := New()
	err := img.LoadProgram(make([]byte, ProgMax+1))
	require.Error(t, err)
}

func TestLoadProgramRejectsEmptyROM(t *testing.T) {
	img := New()
	require.Error(t, img.LoadProgram(nil))
}

func TestReadWriteWraps(t *testing.T) {
	img := New()
	img.Write(Size+5, 0x42)
	require.Equal(t, byte(0x42), img.Read(5))
}

func TestFontGlyphAddr(t *testing.T) {
	require.Equal(t, uint16(0), FontGlyphAddr(0))
	require.Equal(t, uint16(5), FontGlyphAddr(1))
	require.Equal(t, uint16(75), FontGlyphAddr(0xF))
}

func TestVRegisters(t *testing.T) {
	img := New()
	img.SetV(0xA, 7)
	require.Equal(t, byte(7), img.V(0xA))
}

func TestXorFramebufferBitReportsCollision(t *testing.T) {
	img := New()
	wasSet := img.XorFramebufferBit(0, 0)
	require.False(t, wasSet)
	wasSet = img.XorFramebufferBit(0, 0)
	require.True(t, wasSet)
}

func TestStackPushPopRoundTrip(t *testing.T) {
	img := New()
	require.NoError(t, img.StackPush(0, 0x1234))
	require.NoError(t, img.StackPush(1, 0x5678))

	v, err := img.StackPop(2)
	require.NoError(t, err)
	require.Equal(t, uint16(0x5678), v)

	v, err = img.StackPop(1)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)
}

func TestStackOverflowUnderflow(t *testing.T) {
	img := New()
	require.Error(t, img.StackPush(StackSlots, 0))
	_, err := img.StackPop(0)
	require.Error(t, err)
}

func TestClearFramebuffer(t *testing.T) {
	img := New()
	img.XorFramebufferBit(10, 10)
	img.ClearFramebuffer()
	for i := 0; i < FramebufferSize; i++ {
		require.Zero(t, img.FramebufferByte(i))
	}
}
