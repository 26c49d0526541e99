// Package chip8 is the CHIP-8 interpreter core: the fetch-decode-
// execute loop, the quirk-gated opcode semantics, the sprite blitter,
// the timer subsystem, and frame pacing. It never touches a clock, a
// keyboard, or a screen directly — all of that goes through a
// host.Host.
package chip8

import (
	"fmt"
	"sync/atomic"

	"github.com/bhamilton-dev/chip8vm/internal/disasm"
	"github.com/bhamilton-dev/chip8vm/internal/host"
	"github.com/bhamilton-dev/chip8vm/internal/keypad"
	"github.com/bhamilton-dev/chip8vm/internal/memory"
	"github.com/bhamilton-dev/chip8vm/internal/opcode"
)

const (
	// pcMin/pcMax bound valid execution addresses: 0x1FC allows a
	// boot stub to precede the program start at 0x200.
	pcMin = 0x1FC
	pcMax = memory.ProgEnd // exclusive

	frameNS = 16_666_667 // one 60Hz tick, in nanoseconds
)

// Signals are the two process-wide cancellation flags described in
// spec.md §5. They are safe for one writer (a signal handler or
// equivalent) and one reader (the frame loop) without further
// synchronization.
type Signals struct {
	Stop atomic.Bool
	Dump atomic.Bool
}

// VM is one running instance of the CHIP-8 interpreter core. It owns
// a memory.Image (font, program, stack, V registers, framebuffer) and
// the machine registers that spec.md's address map does not allocate
// a byte range for: PC, its previous value, I, SP, DT, and ST.
type VM struct {
	img *memory.Image

	pc, prevPC uint16
	i          uint16
	sp         uint8
	dt, st     byte

	keys   *keypad.Debouncer
	params host.Params

	waitingKey bool
	waitingVX  byte

	// drawThrottled is set by drw when QuirkVBlankWait limits the frame
	// to one sprite draw, and consumed by step immediately after.
	drawThrottled bool

	haltErr error

	accumNS     int64
	haveLastNS  bool
	lastTimerNS int64
}

// New creates a VM, loads rom into the program region, and sets PC to
// the program start.
func New(rom []byte, params host.Params) (*VM, error) {
	img := memory.New()
	if err := img.LoadProgram(rom); err != nil {
		return nil, err
	}
	return &VM{
		img:    img,
		pc:     memory.ProgAddr,
		keys:   keypad.New(),
		params: params,
	}, nil
}

// Halted reports whether the VM has stopped due to an execution error
// (as opposed to a caller-requested Signals.Stop).
func (vm *VM) Halted() bool { return vm.haltErr != nil }

// Err returns the halt diagnostic, or nil if the VM has not halted.
func (vm *VM) Err() error { return vm.haltErr }

// Dump renders a full or code-only disassembly/register dump of the
// VM's current state.
func (vm *VM) Dump(full bool) string {
	regs := disasm.Registers{
		PC: vm.pc, PrevPC: vm.prevPC, I: vm.i,
		SP: vm.sp, DT: vm.dt, ST: vm.st,
	}
	for r := 0; r < 16; r++ {
		regs.V[r] = vm.img.V(uint8(r))
	}
	for s := uint8(0); s < memory.StackSlots; s++ {
		regs.Stack[s], _ = vm.img.StackPop(s + 1)
	}
	progLen := memory.ProgEnd - memory.ProgAddr
	return disasm.Dump(vm.img, regs, progLen, full)
}

// Run drives the frame loop until Signals.Stop is observed or the VM
// halts. Each iteration: service a pending Dump request, check Stop,
// run up to OpcodesPerFrame instructions, decrement timers, flush the
// framebuffer, sample the keypad, and pace to the 60Hz frame boundary.
func (vm *VM) Run(h host.Host, sig *Signals) error {
	for {
		if sig.Dump.Load() {
			h.DumpOut(vm.Dump(true))
			sig.Dump.Store(false)
		}
		if sig.Stop.Load() {
			sig.Stop.Store(false)
			return nil
		}

		frameStart := h.NowNS()
		vm.RunFrame(h)
		if vm.Halted() {
			h.ErrorOut(vm.haltErr.Error())
			return vm.haltErr
		}

		h.FlushFramebuffer(vm.img.Framebuffer())
		raw := h.SampleKeys()
		vm.keys.Sample(raw, h.NowNS(), vm.params.KeypadResponseMS)

		elapsed := h.NowNS() - frameStart
		if elapsed < frameNS {
			h.SleepNS(frameNS - elapsed)
		}
	}
}

// RunFrame executes up to one frame's worth of instructions (bounded
// by OpcodesPerFrame, by VBLANK throttling, and by a key-wait/
// intentional halt), then decrements the timers. It does not flush
// the framebuffer, sample the keypad, or pace the frame — Run (or a
// test) is responsible for that.
func (vm *VM) RunFrame(h host.Host) {
	now := h.NowNS()
	if !vm.haveLastNS {
		vm.lastTimerNS = now
		vm.haveLastNS = true
	}

	for n := 0; n < vm.params.OpcodesPerFrame; n++ {
		stopBatch := vm.step(h)
		if vm.Halted() {
			return
		}
		if stopBatch {
			break
		}
	}

	vm.tickTimers(h, now)
}

// tickTimers advances the nanosecond accumulator and decrements DT/ST
// at 60Hz, independent of how many opcodes actually ran this frame.
func (vm *VM) tickTimers(h host.Host, now int64) {
	vm.accumNS += now - vm.lastTimerNS
	vm.lastTimerNS = now
	for vm.accumNS >= frameNS {
		vm.accumNS -= frameNS
		if vm.dt > 0 {
			vm.dt--
		}
		if vm.st > 0 {
			h.Beep()
			vm.st--
		}
	}
}

// step executes exactly one instruction and reports whether the
// per-frame batch should stop after it (a key wait, an intentional
// 1NNN self-jump halt, or a VBLANK-throttled draw).
func (vm *VM) step(h host.Host) (stopBatch bool) {
	if vm.pc < pcMin || vm.pc >= pcMax {
		vm.halt("pc overflow (0x%03X)", vm.pc)
		return true
	}

	hi, lo := vm.img.Read(vm.pc), vm.img.Read(vm.pc+1)
	op := opcode.Decode(hi, lo)
	vm.prevPC = vm.pc

	vm.dispatch(op, h)

	if vm.Halted() {
		return true
	}

	if vm.prevPC == vm.pc {
		waiting := op.Group == 0xF && op.NN == 0x0A
		selfJump := op.Group == 0x1
		if !waiting && !selfJump {
			vm.halt("pc did not advance from 0x%03X; opcode 0x%04X", vm.pc, op.Value)
			return true
		}
		return true
	}

	if vm.drawThrottled {
		vm.drawThrottled = false
		return true
	}
	return false
}

func (vm *VM) halt(format string, args ...any) {
	vm.haltErr = fmt.Errorf(format, args...)
}
