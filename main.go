// main.go - demo entry point for the e6502 coprocessor substrate.

/*
 ▓█████▄▄▄█████▓ ▒█████    ██████  ▒█████   ██▓███
▓█   ▀▓  ██▒ ▓▒▒██▒  ██▒▒██    ▒ ▒██▒  ██▒▓██░  ██▒
▒███  ▒ ▓██░ ▒░▒██░  ██▒░ ▓██▄   ▒██░  ██▒▓██░ ██▓▒
▒▓█  ▄░ ▓██▓ ░ ▒██   ██░  ▒   ██▒▒██   ██░▒██▄█▓▒ ▒
░▒████▒ ▒██▒ ░ ░ ████▓▒░▒██████▒▒░ ████▓▒░▒██▒ ░  ░
░░ ▒░ ░ ▒ ░░   ░ ▒░▒░▒░ ▒ ▒▓▒ ▒ ░░ ▒░▒░▒░ ▒▓▒░ ░  ░
 ░ ░  ░   ░      ░ ▒ ▒░ ░ ░▒  ░ ░  ░ ▒ ▒░ ░▒ ░
   ░    ░      ░ ░ ░ ▒  ░  ░  ░  ░ ░ ░ ▒  ░░
   ░  ░            ░ ░        ░      ░ ░

A memory-mapped bus-and-coprocessor substrate for a fantasy 8-bit computer.
(c) 2024 - 2026 e6502 project contributors
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;100;200;255m ▓█████▄▄▄█████▓ ▒█████    ██████  ▒█████   ██▓███  \033[0m")
	fmt.Println("\033[38;2;100;190;255m▓█   ▀▓  ██▒ ▓▒▒██▒  ██▒▒██    ▒ ▒██▒  ██▒▓██░  ██▒\033[0m")
	fmt.Println("\033[38;2;100;180;255m▒███  ▒ ▓██░ ▒░▒██░  ██▒░ ▓██▄   ▒██░  ██▒▓██░ ██▓▒\033[0m")
	fmt.Println("\033[38;2;100;170;255m▒▓█  ▄░ ▓██▓ ░ ▒██   ██░  ▒   ██▒▒██   ██░▒██▄█▓▒ ▒\033[0m")
	fmt.Println("\033[38;2;100;160;255m░▒████▒ ▒██▒ ░ ░ ████▓▒░▒██████▒▒░ ████▓▒░▒██▒ ░  ░\033[0m")
	fmt.Println("\nA memory-mapped bus-and-coprocessor substrate for a fantasy 8-bit computer.")
	fmt.Println("(c) 2024 - 2026 e6502 project contributors")
	fmt.Println("License: GPLv3 or later")
}

func writeCZ(m *Machine, addr uint16, v ...byte) {
	for i, b := range v {
		m.Bus.Write8(addr+uint16(i), b)
	}
}

// demoFrame writes a handful of VGC drawing commands, stashes a named block
// in expansion RAM, and plays a short MML jingle on voice 0, exercising the
// core components end to end.
func demoFrame(m *Machine) {
	m.Bus.Write8(VGCRegBase+RegDrawColor, 14)
	writeCZ(m, VGCRegBase+RegP0, 10, 0, 10, 0)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdPlot)

	writeCZ(m, VGCRegBase+RegP0, 0, 0, 0, 0, 50, 0, 50, 0, 1)
	m.Bus.Write8(VGCRegBase+RegCtrl, CmdRect)

	name := "savegame"
	ptr := uint16(0x0200)
	m.Bus.WriteBlock(ptr, append([]byte(name), 0))
	writeCZ(m, XMCRegBase+XMCRegNamePtrLo, byte(ptr), byte(ptr>>8))
	writeCZ(m, XMCRegBase+XMCRegRamPtrLo, 0x00, 0x03)
	writeCZ(m, XMCRegBase+XMCRegLenLo, 0x10, 0x00)
	m.Bus.Write8(XMCRegBase+XMCRegCmd, XCmdStash)

	// BA50-BA56 is read-only, so the jingle isn't started through a bus
	// write: MusicEngine.Play is the host-side call that drives it.
	m.Music.Play(0, "T140O4L8CDEFGAB>C")
}

func main() {
	boilerPlate()

	if len(os.Args) < 2 {
		fmt.Println("Usage: ./e6502 <rom-file> [save-dir]")
		os.Exit(1)
	}

	romPath := os.Args[1]
	saveDir := "."
	if len(os.Args) >= 3 {
		saveDir = os.Args[2]
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Printf("Failed to read ROM image: %v\n", err)
		os.Exit(1)
	}

	m := NewMachine(saveDir, 44100)
	m.LoadROM(rom)
	m.ColdStart()

	player, err := NewOtoPlayer(44100)
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	player.SetupPlayer(m.SID)
	player.Start()
	defer player.Close()

	demoFrame(m)

	const frames = 600
	for i := 0; i < frames; i++ {
		m.OnFrame()
	}

	fmt.Printf("Ran %d frames.\n", m.FrameCount())
}
