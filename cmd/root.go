package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// currentReleaseVersion is used to print the version the user currently has downloaded
const currentReleaseVersion = "v0.1.0"

// rootCmd is the base for all commands.
var rootCmd = &cobra.Command{
	Use:   "chip8vm [command]",
	Short: "chip8vm is a CHIP-8 virtual machine",
	Long:  "chip8vm is a CHIP-8 virtual machine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Unknown command. Try `chip8vm help` for more information")
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	runCmd.Flags().BoolVar(&disasmOnly, "disasm", false, "disassemble the ROM(s) and exit instead of running them")
	runCmd.Flags().IntVar(&opcodesPerFrame, "opcodes-per-frame", 10, "instructions executed per 60Hz frame")
	runCmd.Flags().IntVar(&keypadResponseMS, "keypad-response-ms", 30, "keypad debounce/release window, in milliseconds")
	runCmd.Flags().Bool("quirk-shift-vx", true, "8XY6/8XYE shift VX in place instead of VY")
	runCmd.Flags().Bool("quirk-jump-from-x", false, "BNNN adds VX instead of V0")
	runCmd.Flags().Bool("quirk-no-clip", false, "DXYN sprites wrap at screen edges instead of clipping")
	runCmd.Flags().Bool("quirk-increment-i", false, "FX55/FX65 advance I past the transferred registers")
	runCmd.Flags().Bool("quirk-reset-vf", false, "8XY1/8XY2/8XY3 zero VF after the bitwise op")
	runCmd.Flags().Bool("quirk-vblank-wait", false, "DXYN draws at most once per frame")
	runCmd.Flags().Bool("tone", false, "play a synthesized tone in addition to the terminal bell")
}

// Execute runs chip8vm according to the user's command/subcommand/flags
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
