// Package memory owns the CHIP-8 4 KiB address space and the fixed
// region layout described by the interpreter's memory map: font
// glyphs, free RAM, the loaded program, the call stack, the V
// registers, and the framebuffer all live inside one contiguous
// byte array so that a full dump is a single region.
package memory

import "fmt"

const (
	Size = 0x1000 // 4096 bytes total address space

	FontAddr  = 0x000
	FontSize  = 80
	FreeAddr  = 0x050
	ProgAddr  = 0x200
	ProgEnd   = 0xEA0
	ProgMax   = ProgEnd - ProgAddr // 3,232 bytes

	StackAddr  = 0xEA0
	StackEnd   = 0xEC0
	StackSlots = 16

	VAddr = 0xEF0
	VEnd  = 0xF00

	FramebufferAddr = 0xF00
	FramebufferSize = 256 // 64x32 1bpp

	FlagRegister = 0xF // V[0xF]
)

// Font is the built-in 16-glyph x 5-byte hex digit font, preloaded at
// FontAddr on every Image reset.
var Font = [FontSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Image is the 4096-byte address space backing one ROM's execution.
type Image struct {
	bytes [Size]byte
}

// New returns a zeroed image with the font glyphs preloaded.
func New() *Image {
	img := &Image{}
	copy(img.bytes[FontAddr:FontAddr+FontSize], Font[:])
	return img
}

// LoadProgram copies rom into the program region starting at
// ProgAddr. It returns an error if rom exceeds ProgMax bytes.
func (img *Image) LoadProgram(rom []byte) error {
	if len(rom) == 0 {
		return fmt.Errorf("memory: empty rom")
	}
	if len(rom) > ProgMax {
		return fmt.Errorf("memory: rom too large: %d bytes (max %d)", len(rom), ProgMax)
	}
	copy(img.bytes[ProgAddr:ProgAddr+len(rom)], rom)
	return nil
}

// Read returns the byte at addr, wrapping addr modulo Size.
func (img *Image) Read(addr uint16) byte {
	return img.bytes[addr%Size]
}

// Write stores v at addr, wrapping addr modulo Size.
func (img *Image) Write(addr uint16, v byte) {
	img.bytes[addr%Size] = v
}

// FontGlyphAddr returns the address of the 5-byte glyph for hex digit
// digit (0..F).
func FontGlyphAddr(digit byte) uint16 {
	return FontAddr + uint16(digit&0xF)*5
}

// ClearFramebuffer zeroes all 256 framebuffer bytes.
func (img *Image) ClearFramebuffer() {
	for i := 0; i < FramebufferSize; i++ {
		img.bytes[FramebufferAddr+i] = 0
	}
}

// FramebufferByte returns byte i (0..255) of the framebuffer.
func (img *Image) FramebufferByte(i int) byte {
	return img.bytes[FramebufferAddr+i]
}

// XorFramebufferBit XORs a single pixel bit into the framebuffer at
// absolute column x (0..63) and row y (0..31), and reports whether the
// bit was set before the XOR (for VF collision detection).
func (img *Image) XorFramebufferBit(x, y int) (wasSet bool) {
	byteIdx := FramebufferAddr + (y*64+x)/8
	mask := byte(1) << (7 - uint(x%8))
	wasSet = img.bytes[byteIdx]&mask != 0
	img.bytes[byteIdx] ^= mask
	return wasSet
}

// Framebuffer returns a copy of the 256-byte framebuffer region, ready
// to be handed to a Host's FlushFramebuffer.
func (img *Image) Framebuffer() [FramebufferSize]byte {
	var fb [FramebufferSize]byte
	copy(fb[:], img.bytes[FramebufferAddr:FramebufferAddr+FramebufferSize])
	return fb
}

// StackPush writes value as a big-endian word at stack slot sp (0..15)
// and returns an error if sp is out of range.
func (img *Image) StackPush(sp uint8, value uint16) error {
	if sp >= StackSlots {
		return fmt.Errorf("memory: stack overflow at slot %d", sp)
	}
	addr := StackAddr + uint16(sp)*2
	img.bytes[addr] = byte(value >> 8)
	img.bytes[addr+1] = byte(value)
	return nil
}

// StackPop reads the big-endian word at stack slot sp-1 and reports an
// error if sp is zero (nothing to pop).
func (img *Image) StackPop(sp uint8) (uint16, error) {
	if sp == 0 {
		return 0, fmt.Errorf("memory: stack underflow")
	}
	addr := StackAddr + uint16(sp-1)*2
	return uint16(img.bytes[addr])<<8 | uint16(img.bytes[addr+1]), nil
}

// V returns the value of V register r (0..15).
func (img *Image) V(r uint8) byte {
	return img.bytes[VAddr+uint16(r&0xF)]
}

// SetV stores v into V register r (0..15).
func (img *Image) SetV(r uint8, v byte) {
	img.bytes[VAddr+uint16(r&0xF)] = v
}

// Dump returns a copy of the entire 4096-byte image.
func (img *Image) Dump() [Size]byte {
	return img.bytes
}
