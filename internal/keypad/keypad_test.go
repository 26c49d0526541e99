package keypad

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAllKeysUp(t *testing.T) {
	d := New()
	for k := byte(0); k < 16; k++ {
		require.True(t, d.IsUp(k))
		require.False(t, d.IsDown(k))
	}
	_, ok := d.LowestDown()
	require.False(t, ok)
}

func TestSampleMarksKeyDown(t *testing.T) {
	d := New()
	d.Sample(1<<3, 0, 30)
	require.True(t, d.IsDown(3))
	require.False(t, d.IsUp(3))

	key, ok := d.LowestDown()
	require.True(t, ok)
	require.Equal(t, byte(3), key)
}

func TestSampleReleasesAfterTimeout(t *testing.T) {
	d := New()
	d.Sample(1<<3, 0, 30)
	require.True(t, d.IsDown(3))

	// still within the window: stays down
	d.Sample(0, 29*1_000_000, 30)
	require.True(t, d.IsDown(3))

	// past the window: releases
	d.Sample(0, 31*1_000_000, 30)
	require.True(t, d.IsUp(3))
	require.False(t, d.IsDown(3))
}

func TestDownMask(t *testing.T) {
	d := New()
	d.Sample(1<<0|1<<15, 0, 30)
	require.Equal(t, uint16(1<<0|1<<15), d.DownMask())
}
