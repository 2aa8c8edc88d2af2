// memmap.go - the 6502-visible address map and the device-id lookup table
// that makes bus decoding O(1).

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 e6502 project contributors
License: GPLv3 or later
*/

package main

// Fixed address ranges, bit-exact per the memory map. Zero page, stack,
// system vectors and BASIC/user RAM are all flat RAM and need no explicit
// range constant beyond their device id.
const (
	VGCRegBase    = 0xA000
	VGCRegEnd     = 0xA01F
	VGCCtrlReg    = 0xA010 // command dispatch trigger
	SpriteRegBase = 0xA040
	SpriteRegEnd  = 0xA0BF
	SpriteRegSize = 8
	NumSprites    = 16

	NICBase = 0xA100
	NICEnd  = 0xA13F

	CharRAMBase = 0xAA00
	CharRAMEnd  = 0xB1CF
	CharRAMSize = 2000

	ColorRAMBase = 0xB1D0
	ColorRAMEnd  = 0xB99F
	ColorRAMSize = 2000

	FIORegBase = 0xB9A0
	FIORegEnd  = 0xB9EF

	XMCRegBase = 0xBA00
	XMCRegEnd  = 0xBA3F

	TimerBase = 0xBA40
	TimerEnd  = 0xBA4F

	MusicStatusBase = 0xBA50
	MusicStatusEnd  = 0xBA56

	DMARegBase = 0xBA60
	DMARegEnd  = 0xBA7F

	BlitterRegBase = 0xBA80
	BlitterRegEnd  = 0xBA9F

	XRAMWindowBase = 0xBC00
	XRAMWindowEnd  = 0xBFFF
	XRAMWindowSize = 256
	NumXRAMWindows = 4

	ROMBase = 0xC000
	ROMEnd  = 0xFFFF
	ROMSize = ROMEnd - ROMBase + 1

	SID1Base = 0xD400
	SID1End  = 0xD41C
	SID2Base = 0xD420
	SID2End  = 0xD43C

	// Legacy mirror: SID2's full register block is aliased at $D500; the
	// mirror spans all 29 bytes rather than a single byte.
	SID2MirrorBase = 0xD500
	SID2MirrorEnd  = 0xD51C
)

// deviceID tags which owner handles a given address. A tagged-variant
// dispatch table, not runtime inheritance: Bus.Read8/Write8 switches on the
// id returned by an O(1) array lookup.
type deviceID uint8

const (
	devRAM deviceID = iota
	devVGCReg
	devSpriteReg
	devNIC
	devCharRAM
	devColorRAM
	devFIO
	devXMC
	devTimer
	devMusicStatus
	devDMA
	devBlitter
	devXRAMWindow
	devROM
	devSID1
	devSID2
	devSID2Mirror
)

// addrDevice maps every one of the 65536 addresses to its owning device in
// one array lookup; building it once at package init keeps Bus.Read8/Write8
// O(1) with no per-access range scan.
var addrDevice [65536]deviceID

func init() {
	fillRange := func(lo, hi int, id deviceID) {
		for a := lo; a <= hi; a++ {
			addrDevice[a] = id
		}
	}
	fillRange(VGCRegBase, VGCRegEnd, devVGCReg)
	fillRange(SpriteRegBase, SpriteRegEnd, devSpriteReg)
	fillRange(NICBase, NICEnd, devNIC)
	fillRange(CharRAMBase, CharRAMEnd, devCharRAM)
	fillRange(ColorRAMBase, ColorRAMEnd, devColorRAM)
	fillRange(FIORegBase, FIORegEnd, devFIO)
	fillRange(XMCRegBase, XMCRegEnd, devXMC)
	fillRange(TimerBase, TimerEnd, devTimer)
	fillRange(MusicStatusBase, MusicStatusEnd, devMusicStatus)
	fillRange(DMARegBase, DMARegEnd, devDMA)
	fillRange(BlitterRegBase, BlitterRegEnd, devBlitter)
	fillRange(XRAMWindowBase, XRAMWindowEnd, devXRAMWindow)
	fillRange(ROMBase, ROMEnd, devROM)
	fillRange(SID1Base, SID1End, devSID1)
	fillRange(SID2Base, SID2End, devSID2)
	fillRange(SID2MirrorBase, SID2MirrorEnd, devSID2Mirror)
}
