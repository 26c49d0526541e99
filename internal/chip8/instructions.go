package chip8

import (
	"github.com/bhamilton-dev/chip8vm/internal/host"
	"github.com/bhamilton-dev/chip8vm/internal/memory"
	"github.com/bhamilton-dev/chip8vm/internal/opcode"
)

// dispatch executes one decoded instruction. PC is advanced by 2
// unconditionally up front; jump, call, return, and skip opcodes then
// override or further advance it as needed. A halt sets vm.haltErr and
// leaves PC wherever the handler left it.
func (vm *VM) dispatch(op opcode.Opcode, h host.Host) {
	vm.pc += 2

	switch op.Group {
	case 0x0:
		switch op.NNN {
		case 0x0E0:
			vm.img.ClearFramebuffer()
		case 0x0EE:
			vm.ret()
		default:
			// 0NNN (call machine code routine) is a legacy RCA-1802
			// syscall no-op: PC already advanced above.
		}

	case 0x1:
		vm.pc = op.NNN

	case 0x2:
		vm.call(op.NNN)

	case 0x3:
		if vm.img.V(op.VX) == op.NN {
			vm.pc += 2
		}

	case 0x4:
		if vm.img.V(op.VX) != op.NN {
			vm.pc += 2
		}

	case 0x5:
		// Unknown low nibbles (5XY1..5XYF) are no-ops: PC already
		// advanced above.
		if op.N == 0 && vm.img.V(op.VX) == vm.img.V(op.VY) {
			vm.pc += 2
		}

	case 0x6:
		vm.img.SetV(op.VX, op.NN)

	case 0x7:
		vm.img.SetV(op.VX, vm.img.V(op.VX)+op.NN)

	case 0x8:
		vm.arith(op)

	case 0x9:
		// Unknown low nibbles (9XY1..9XYF) are no-ops: PC already
		// advanced above.
		if op.N == 0 && vm.img.V(op.VX) != vm.img.V(op.VY) {
			vm.pc += 2
		}

	case 0xA:
		vm.i = op.NNN

	case 0xB:
		reg := byte(0)
		if vm.params.Quirks.Has(host.QuirkJumpFromX) {
			reg = op.VX
		}
		vm.pc = op.NNN + uint16(vm.img.V(reg))

	case 0xC:
		vm.img.SetV(op.VX, h.RandomByte()&op.NN)

	case 0xD:
		vm.drw(op.VX, op.VY, op.N)

	case 0xE:
		switch op.NN {
		case 0x9E:
			if vm.keys.IsDown(vm.img.V(op.VX)) {
				vm.pc += 2
			}
		case 0xA1:
			if !vm.keys.IsDown(vm.img.V(op.VX)) {
				vm.pc += 2
			}
		default:
			// Unknown EX** no-ops: PC already advanced above.
		}

	case 0xF:
		vm.miscF(op)

	default:
		vm.illegal(op)
	}
}

func (vm *VM) illegal(op opcode.Opcode) {
	vm.halt("illegal opcode 0x%04X at 0x%03X", op.Value, vm.prevPC)
}

func (vm *VM) ret() {
	addr, err := vm.img.StackPop(vm.sp)
	if err != nil {
		vm.halt("%s", err)
		return
	}
	vm.sp--
	vm.pc = addr
}

func (vm *VM) call(nnn uint16) {
	if err := vm.img.StackPush(vm.sp, vm.pc); err != nil {
		vm.halt("%s", err)
		return
	}
	vm.sp++
	vm.pc = nnn
}

// arith implements the 8XY* register-register group. The VF result
// flag is always written last, after VX, so that an X of 0xF sees the
// flag win over whatever the operation itself computed for VX.
func (vm *VM) arith(op opcode.Opcode) {
	vx, vy := vm.img.V(op.VX), vm.img.V(op.VY)

	switch op.N {
	case 0x0:
		vm.img.SetV(op.VX, vy)

	case 0x1:
		vm.img.SetV(op.VX, vx|vy)
		if vm.params.Quirks.Has(host.QuirkResetVF) {
			vm.img.SetV(memory.FlagRegister, 0)
		}

	case 0x2:
		vm.img.SetV(op.VX, vx&vy)
		if vm.params.Quirks.Has(host.QuirkResetVF) {
			vm.img.SetV(memory.FlagRegister, 0)
		}

	case 0x3:
		vm.img.SetV(op.VX, vx^vy)
		if vm.params.Quirks.Has(host.QuirkResetVF) {
			vm.img.SetV(memory.FlagRegister, 0)
		}

	case 0x4:
		sum := uint16(vx) + uint16(vy)
		var flag byte
		if sum > 0xFF {
			flag = 1
		}
		vm.img.SetV(op.VX, byte(sum))
		vm.img.SetV(memory.FlagRegister, flag)

	case 0x5:
		var flag byte
		if vx >= vy {
			flag = 1
		}
		vm.img.SetV(op.VX, vx-vy)
		vm.img.SetV(memory.FlagRegister, flag)

	case 0x6:
		src := vy
		if vm.params.Quirks.Has(host.QuirkShiftVX) {
			src = vx
		}
		vm.img.SetV(op.VX, src>>1)
		vm.img.SetV(memory.FlagRegister, src&0x1)

	case 0x7:
		var flag byte
		if vy >= vx {
			flag = 1
		}
		vm.img.SetV(op.VX, vy-vx)
		vm.img.SetV(memory.FlagRegister, flag)

	case 0xE:
		src := vy
		if vm.params.Quirks.Has(host.QuirkShiftVX) {
			src = vx
		}
		vm.img.SetV(op.VX, src<<1)
		vm.img.SetV(memory.FlagRegister, (src>>7)&0x1)

	default:
		// Group 8 is the one case that should halt on an unknown low
		// nibble, but via the generic "PC did not advance" detector in
		// step() rather than a dedicated message: cancel the
		// unconditional pre-advance dispatch already made so PC is
		// left exactly where it started.
		vm.pc = vm.prevPC
	}
}

// drw blits an N-byte sprite from I at (VX, VY). The starting corner
// always wraps into the visible screen; per-pixel placement beyond
// the edges either clips (default) or wraps (QuirkNoClipping).
// QuirkVBlankWait limits the frame to this one draw.
func (vm *VM) drw(x, y, n byte) {
	x0 := int(vm.img.V(x)) % 64
	y0 := int(vm.img.V(y)) % 32
	wrap := vm.params.Quirks.Has(host.QuirkNoClipping)

	collision := false
	for row := 0; row < int(n); row++ {
		spriteByte := vm.img.Read(vm.i + uint16(row))
		for col := 0; col < 8; col++ {
			if spriteByte&(0x80>>uint(col)) == 0 {
				continue
			}
			px, py := x0+col, y0+row
			if wrap {
				px %= 64
				py %= 32
			} else if px >= 64 || py >= 32 {
				continue
			}
			if vm.img.XorFramebufferBit(px, py) {
				collision = true
			}
		}
	}

	var flag byte
	if collision {
		flag = 1
	}
	vm.img.SetV(memory.FlagRegister, flag)

	if vm.params.Quirks.Has(host.QuirkVBlankWait) {
		vm.drawThrottled = true
	}
}

// miscF implements the FX** group: timers, the keypad, I arithmetic,
// the font lookup, BCD conversion, and the register-block transfer.
func (vm *VM) miscF(op opcode.Opcode) {
	x := op.VX
	switch op.NN {
	case 0x07:
		vm.img.SetV(x, vm.dt)

	case 0x0A:
		vm.waitKey(x)

	case 0x15:
		vm.dt = vm.img.V(x)

	case 0x18:
		vm.st = vm.img.V(x)

	case 0x1E:
		vm.i += uint16(vm.img.V(x))

	case 0x29:
		vm.i = memory.FontGlyphAddr(vm.img.V(x))

	case 0x33:
		v := vm.img.V(x)
		vm.img.Write(vm.i, v/100)
		vm.img.Write(vm.i+1, (v/10)%10)
		vm.img.Write(vm.i+2, v%10)

	case 0x55:
		for r := 0; r <= int(x); r++ {
			vm.img.Write(vm.i+uint16(r), vm.img.V(uint8(r)))
		}
		if vm.params.Quirks.Has(host.QuirkIncrementI) {
			vm.i += uint16(x) + 1
		}

	case 0x65:
		for r := 0; r <= int(x); r++ {
			vm.img.SetV(uint8(r), vm.img.Read(vm.i+uint16(r)))
		}
		if vm.params.Quirks.Has(host.QuirkIncrementI) {
			vm.i += uint16(x) + 1
		}

	default:
		// Unknown FX** no-ops: PC already advanced above.
	}
}

// waitKey implements FX0A's two-phase behavior: first wait for any key
// to go down (latching it into VX without advancing PC), then wait for
// that same key to be released (debounced) before advancing.
func (vm *VM) waitKey(x byte) {
	if !vm.waitingKey {
		if key, ok := vm.keys.LowestDown(); ok {
			vm.img.SetV(x, key)
			vm.waitingKey = true
			vm.waitingVX = x
		}
		vm.pc = vm.prevPC
		return
	}

	if vm.keys.IsUp(vm.img.V(vm.waitingVX)) {
		vm.waitingKey = false
		return
	}
	vm.pc = vm.prevPC
}
