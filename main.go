package main

import "github.com/bhamilton-dev/chip8vm/cmd"

func main() {
	cmd.Execute()
}
