package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bhamilton-dev/chip8vm/internal/chip8"
	"github.com/bhamilton-dev/chip8vm/internal/chip8demo"
	"github.com/bhamilton-dev/chip8vm/internal/disasm"
	"github.com/bhamilton-dev/chip8vm/internal/host"
	"github.com/bhamilton-dev/chip8vm/internal/memory"
	"github.com/bhamilton-dev/chip8vm/internal/termhost"
)

const maxPrograms = 10

var (
	disasmOnly       bool
	opcodesPerFrame  int
	keypadResponseMS int
)

// runCmd runs the chip8vm virtual machine against one or more ROMs,
// in sequence, until each finishes or a quit signal is received.
var runCmd = &cobra.Command{
	Use:   "run [path/to/rom ...]",
	Short: "run one or more CHIP-8 ROMs",
	Long:  "Run one or more CHIP-8 ROMs in sequence. With no arguments, runs the built-in demo.",
	Args:  cobra.MaximumNArgs(maxPrograms),
	RunE:  runChip8vm,
}

func quirksFromFlags(cmd *cobra.Command) host.Quirk {
	var q host.Quirk
	set := func(name string, flag host.Quirk) {
		if on, _ := cmd.Flags().GetBool(name); on {
			q |= flag
		}
	}
	set("quirk-shift-vx", host.QuirkShiftVX)
	set("quirk-jump-from-x", host.QuirkJumpFromX)
	set("quirk-no-clip", host.QuirkNoClipping)
	set("quirk-increment-i", host.QuirkIncrementI)
	set("quirk-reset-vf", host.QuirkResetVF)
	set("quirk-vblank-wait", host.QuirkVBlankWait)
	return q
}

// loadROMs reads each path in turn. A path that fails to read stops
// enumeration there, but whatever loaded successfully before it is
// still returned — matching the reference, which runs every program
// it already read rather than discarding a good batch over one bad
// path further down the list.
func loadROMs(paths []string) [][]byte {
	if len(paths) == 0 {
		return [][]byte{chip8demo.RandomTimer}
	}
	roms := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot open program %s: %v\n", p, err)
			break
		}
		roms = append(roms, data)
	}
	return roms
}

func runChip8vm(cmd *cobra.Command, args []string) error {
	roms := loadROMs(args)
	if len(roms) == 0 {
		return fmt.Errorf("no programs loaded")
	}

	if disasmOnly {
		runDisasm(roms)
		return nil
	}

	params := host.Params{
		OpcodesPerFrame:  opcodesPerFrame,
		KeypadResponseMS: keypadResponseMS,
		Quirks:           quirksFromFlags(cmd),
	}

	var opts []termhost.Option
	if on, _ := cmd.Flags().GetBool("tone"); on {
		opts = append(opts, termhost.WithTone())
	}

	term, err := termhost.Open(opts...)
	if err != nil {
		return fmt.Errorf("error opening terminal: %w", err)
	}
	defer term.Close()

	ran := 0
	for _, rom := range roms {
		vm, err := chip8.New(rom, params)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading program: %v\n", err)
			continue
		}
		ran++

		sig := &chip8.Signals{}
		quitBatch := installSignals(sig)

		runErr := vm.Run(term, sig)
		quitBatch.stop()

		if runErr != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		}
		if quitBatch.quit {
			break
		}
	}
	if ran == 0 {
		return fmt.Errorf("no programs ran")
	}
	return nil
}

func runDisasm(roms [][]byte) {
	for i, rom := range roms {
		img := memory.New()
		if err := img.LoadProgram(rom); err != nil {
			fmt.Fprintf(os.Stderr, "error loading program %d: %v\n", i, err)
			continue
		}
		fmt.Fprint(os.Stderr, disasm.Dump(img, disasm.Registers{}, len(rom), false))
		if i < len(roms)-1 {
			fmt.Fprintln(os.Stderr)
		}
	}
}

// quitSignals wires the reference implementation's SIGINT/SIGTERM ->
// Stop, SIGQUIT -> Dump+Stop+batch-quit, SIGHUP -> Dump mapping onto
// one ROM's Signals.
type quitSignals struct {
	ch   chan os.Signal
	done chan struct{}
	quit bool
}

func installSignals(sig *chip8.Signals) *quitSignals {
	q := &quitSignals{
		ch:   make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(q.ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)

	go func() {
		for {
			select {
			case s := <-q.ch:
				switch s {
				case syscall.SIGINT, syscall.SIGTERM:
					sig.Stop.Store(true)
				case syscall.SIGQUIT:
					sig.Dump.Store(true)
					sig.Stop.Store(true)
					q.quit = true
				case syscall.SIGHUP:
					sig.Dump.Store(true)
				}
			case <-q.done:
				return
			}
		}
	}()

	return q
}

func (q *quitSignals) stop() {
	signal.Stop(q.ch)
	close(q.done)
}
