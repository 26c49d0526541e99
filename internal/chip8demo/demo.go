// Package chip8demo carries the reference implementation's one
// built-in demo ROM, used as a no-args CLI fallback and as the fixture
// for the interpreter core's boot-demo test (spec.md §8 scenario 1).
package chip8demo

// RandomTimer draws the font glyph for a random hex digit (seeded by
// CXNN) at a fixed screen position, waits for the delay timer to count
// down from 30, erases the glyph, and loops — exercising font lookup,
// sprite draw, the random source, and the timer registers in 13
// instructions.
var RandomTimer = []byte{
	0x00, 0xE0, 0xC0, 0x0F, 0xF0, 0x29, 0x61, 0x1C,
	0x62, 0x0E, 0xD1, 0x25, 0x63, 0x1E, 0xF3, 0x15,
	0xF4, 0x07, 0x34, 0x00, 0x12, 0x10, 0xD1, 0x25,
	0x12, 0x02,
}
