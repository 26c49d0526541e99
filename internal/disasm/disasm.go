// Package disasm renders decoded CHIP-8 opcodes as fixed mnemonic
// strings and produces full register/memory dumps or code-only hex
// listings, grounded on the reference implementation's
// opcode_to_string and chip8_dump.
package disasm

import (
	"fmt"
	"strings"

	"github.com/bhamilton-dev/chip8vm/internal/memory"
	"github.com/bhamilton-dev/chip8vm/internal/opcode"
)

// Mnemonic renders op using the register syntax from spec.md §6:
// %0..%F for V registers, %i for I, $dt/$st for the timers, $kb for
// the keypad-read pseudo-register, hex immediates with a 0x prefix.
// The second return value is false for encodings with no defined
// mnemonic.
func Mnemonic(op opcode.Opcode) (string, bool) {
	switch op.Group {
	case 0x0:
		switch op.NNN {
		case 0x0E0:
			return "cls", true
		case 0x0EE:
			return "ret", true
		}
	case 0x1:
		return fmt.Sprintf("jp   0x%03x", op.NNN), true
	case 0x2:
		return fmt.Sprintf("call 0x%03x", op.NNN), true
	case 0x3:
		return fmt.Sprintf("se   %%%x, 0x%02x", op.VX, op.NN), true
	case 0x4:
		return fmt.Sprintf("sne  %%%x, 0x%02x", op.VX, op.NN), true
	case 0x5:
		if op.N == 0 {
			return fmt.Sprintf("se   %%%x, %%%x", op.VX, op.VY), true
		}
	case 0x6:
		return fmt.Sprintf("ld   %%%x, 0x%02x", op.VX, op.NN), true
	case 0x7:
		return fmt.Sprintf("add  %%%x, 0x%02x", op.VX, op.NN), true
	case 0x8:
		switch op.N {
		case 0x0:
			return fmt.Sprintf("ld   %%%x, %%%x", op.VX, op.VY), true
		case 0x1:
			return fmt.Sprintf("or   %%%x, %%%x", op.VX, op.VY), true
		case 0x2:
			return fmt.Sprintf("and  %%%x, %%%x", op.VX, op.VY), true
		case 0x3:
			return fmt.Sprintf("xor  %%%x, %%%x", op.VX, op.VY), true
		case 0x4:
			return fmt.Sprintf("add  %%%x, %%%x", op.VX, op.VY), true
		case 0x5:
			return fmt.Sprintf("sub  %%%x, %%%x", op.VX, op.VY), true
		case 0x6:
			return fmt.Sprintf("shr  %%%x", op.VX), true
		case 0x7:
			return fmt.Sprintf("subn %%%x, %%%x", op.VX, op.VY), true
		case 0xE:
			return fmt.Sprintf("shl  %%%x", op.VX), true
		}
	case 0x9:
		if op.N == 0 {
			return fmt.Sprintf("sne  %%%x, %%%x", op.VX, op.VY), true
		}
	case 0xA:
		return fmt.Sprintf("ld   %%i, 0x%03x", op.NNN), true
	case 0xB:
		// The register operand here is always V0's symbol: BNNN's
		// quirk-selected source register isn't known at disassembly
		// time, so the mnemonic names the unconditional default.
		return fmt.Sprintf("jp   %%0, 0x%03x", op.NNN), true
	case 0xC:
		return fmt.Sprintf("rnd  %%%x, 0x%02x", op.VX, op.NN), true
	case 0xD:
		return fmt.Sprintf("drw  %%%x, %%%x, 0x%x", op.VX, op.VY, op.N), true
	case 0xE:
		switch op.NN {
		case 0x9E:
			return fmt.Sprintf("skp  %%%x", op.VX), true
		case 0xA1:
			return fmt.Sprintf("skpn %%%x", op.VX), true
		}
	case 0xF:
		switch op.NN {
		case 0x07:
			return fmt.Sprintf("ld   %%%x, $dt", op.VX), true
		case 0x0A:
			return fmt.Sprintf("ld   %%%x, $kb", op.VX), true
		case 0x15:
			return fmt.Sprintf("ld   $dt, %%%x", op.VX), true
		case 0x18:
			return fmt.Sprintf("ld   $st, %%%x", op.VX), true
		case 0x1E:
			return fmt.Sprintf("add  %%i, %%%x", op.VX), true
		case 0x29:
			return fmt.Sprintf("fnt  %%%x", op.VX), true
		case 0x33:
			return fmt.Sprintf("bcd  %%%x", op.VX), true
		case 0x55:
			return fmt.Sprintf("ld   %%i, %%%x", op.VX), true
		case 0x65:
			return fmt.Sprintf("ld   %%%x, %%i", op.VX), true
		}
	}
	return "", false
}

// Registers is the register-file snapshot a full Dump prints.
type Registers struct {
	PC, PrevPC, I uint16
	SP            uint8
	DT, ST        byte
	V             [16]byte
	Stack         [memory.StackSlots]uint16
}

// Dump renders a memory/register dump for img. When full is true it
// also prints the header block (PC/I/SP/timers/V/stack) before the
// listing and walks the entire 4096-byte image; when full is false it
// walks only the loaded program bytes (code-only, used by -disasm).
func Dump(img *memory.Image, regs Registers, progLen int, full bool) string {
	var b strings.Builder

	if full {
		fmt.Fprintf(&b, "Name      Value\n")
		fmt.Fprintf(&b, "PC        0x%03X\n", regs.PC)
		fmt.Fprintf(&b, "PC Prev   0x%03X\n", regs.PrevPC)
		fmt.Fprintf(&b, "I         0x%03X\n", regs.I)
		fmt.Fprintf(&b, "SP        0x%02X\n", regs.SP)
		fmt.Fprintf(&b, "Delay     0x%02X\n", regs.DT)
		fmt.Fprintf(&b, "Sound     0x%02X\n", regs.ST)
		fmt.Fprintf(&b, "V         ")
		for i, v := range regs.V {
			fmt.Fprintf(&b, "%X:%02X ", i, v)
		}
		fmt.Fprintf(&b, "\n")
		fmt.Fprintf(&b, "Stack     ")
		for i, s := range regs.Stack {
			if i > 0 {
				fmt.Fprintf(&b, ", ")
			}
			fmt.Fprintf(&b, "0x%04X", s)
		}
		fmt.Fprintf(&b, "\n\n")
	}

	var beg, end uint16
	if full {
		beg, end = 0, memory.Size-1
	} else {
		beg = memory.ProgAddr
		end = memory.ProgAddr + uint16(progLen) - 1
	}
	writeListing(&b, img, beg, end, full)
	return b.String()
}

// writeListing walks [beg, end] (inclusive), emitting one line per
// recognized instruction and packing unrecognized bytes into groups of
// up to 16 (full) or 1 (code-only) per line.
func writeListing(b *strings.Builder, img *memory.Image, beg, end uint16, full bool) {
	packWidth := 1
	if full {
		packWidth = 16
	}

	cur := beg
	var pending []byte
	pendingAddr := beg

	flush := func() {
		if len(pending) == 0 {
			return
		}
		fmt.Fprintf(b, "%03x: ", pendingAddr)
		for _, raw := range pending {
			fmt.Fprintf(b, "%02x", raw)
		}
		fmt.Fprintf(b, "\n")
		pending = nil
	}

	codeEnd := uint16(memory.ProgEnd)
	for cur <= end {
		isCode := cur >= memory.ProgAddr && cur < codeEnd && cur < end
		if isCode {
			hi, lo := img.Read(cur), img.Read(cur+1)
			if mnem, ok := Mnemonic(opcode.Decode(hi, lo)); ok {
				flush()
				fmt.Fprintf(b, "%03x: %02x%02x %s\n", cur, hi, lo, mnem)
				if cur+1 == end {
					break
				}
				cur += 2
				pendingAddr = cur
				continue
			}
		}

		if len(pending) == 0 {
			pendingAddr = cur
		}
		pending = append(pending, img.Read(cur))
		if len(pending) >= packWidth {
			flush()
		}
		cur++
	}
	flush()
}
