// bus.go - the 6502-visible bus router: one owner per address, O(1) dispatch.

package main

import "sync"

// Bus decodes a 16-bit address to exactly one owning device and routes
// 8-bit reads and writes, per spec §4.1. Flat RAM backs every address that
// no device claims; ROM is a separate read-only array so writes to it can
// be silently discarded without special-casing the RAM array.
type Bus struct {
	mu sync.Mutex

	ram [65536]byte
	rom [ROMSize]byte

	vgc   *VGC
	fio   *FIOController
	xmc   *XMC
	dma   *DMA
	blit  *Blitter
	sid   *SIDEngine
	music *MusicEngine
}

// NewBus constructs a bus with all RAM/ROM zeroed. Device wiring happens in
// Machine.wire, once every component exists, since bus and devices
// reference each other.
func NewBus() *Bus {
	return &Bus{}
}

// LoadROM copies img into the ROM region starting at offset 0 (CPU address
// ROMBase). Images longer than ROMSize are truncated.
func (b *Bus) LoadROM(img []byte) {
	n := copy(b.rom[:], img)
	_ = n
}

// Read8 returns the byte visible to the CPU at addr.
func (b *Bus) Read8(addr uint16) byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.read8Locked(addr)
}

func (b *Bus) read8Locked(addr uint16) byte {
	switch addrDevice[addr] {
	case devROM:
		return b.rom[int(addr)-ROMBase]
	case devVGCReg:
		return b.vgc.ReadReg(addr)
	case devSpriteReg:
		return b.vgc.ReadSpriteReg(addr)
	case devCharRAM:
		return b.vgc.ReadCharRAM(addr - CharRAMBase)
	case devColorRAM:
		return b.vgc.ReadColorRAM(addr - ColorRAMBase)
	case devFIO:
		return b.fio.ReadReg(addr)
	case devXMC:
		return b.xmc.ReadReg(addr)
	case devXRAMWindow:
		if v, ok := b.xmc.ReadWindow(addr); ok {
			return v
		}
		return b.ram[addr]
	case devMusicStatus:
		return b.music.ReadReg(addr)
	case devDMA:
		return b.dma.ReadReg(addr)
	case devBlitter:
		return b.blit.ReadReg(addr)
	case devSID1, devSID2, devSID2Mirror:
		return 0 // write-only from the CPU's perspective
	case devNIC, devTimer:
		return b.ram[addr] // out of core; flat storage only
	default:
		return b.ram[addr]
	}
}

// Write8 stores val at addr, or forwards it to the owning device.
func (b *Bus) Write8(addr uint16, val byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.write8Locked(addr, val)
}

func (b *Bus) write8Locked(addr uint16, val byte) {
	switch addrDevice[addr] {
	case devROM:
		// discarded
	case devVGCReg:
		b.vgc.WriteReg(addr, val)
	case devSpriteReg:
		b.vgc.WriteSpriteReg(addr, val)
	case devCharRAM:
		b.vgc.WriteCharRAM(addr-CharRAMBase, val)
	case devColorRAM:
		b.vgc.WriteColorRAM(addr-ColorRAMBase, val)
	case devFIO:
		b.fio.WriteReg(addr, val)
	case devXMC:
		b.xmc.WriteReg(addr, val)
	case devXRAMWindow:
		if !b.xmc.WriteWindow(addr, val) {
			b.ram[addr] = val
		}
	case devMusicStatus:
		// discarded: spec.md marks BA50-BA56 read-only (status/error
		// polling only); Play/Stop/SFX go through MusicEngine's host API.
	case devDMA:
		b.dma.WriteReg(addr, val)
	case devBlitter:
		b.blit.WriteReg(addr, val)
	case devSID1:
		b.sid.WriteReg(0, addr-SID1Base, val)
	case devSID2:
		b.sid.WriteReg(1, addr-SID2Base, val)
	case devSID2Mirror:
		b.sid.WriteReg(1, addr-SID2MirrorBase, val)
	default:
		b.ram[addr] = val
	}
}

// Read16 is a little-endian convenience built from two Read8 calls.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := uint16(b.Read8(addr))
	hi := uint16(b.Read8(addr + 1))
	return lo | hi<<8
}

// ReadBlock copies length bytes starting at addr out of CPU RAM space,
// honoring the bus's normal device routing (used by FIO SAVE and XMC STASH
// to read their source range).
func (b *Bus) ReadBlock(addr uint16, length int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, length)
	a := addr
	for i := 0; i < length; i++ {
		out[i] = b.read8Locked(a)
		a++
	}
	return out
}

// WriteBlock writes data into CPU RAM space starting at addr, stopping
// silently (per space-0 semantics) on any byte landing at ROMBase or above.
func (b *Bus) WriteBlock(addr uint16, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := addr
	for _, v := range data {
		if int(a) >= ROMBase {
			return
		}
		b.write8Locked(a, v)
		a++
	}
}

// Reset clears RAM (but not ROM) to zero. ROM content is fixed at load time
// and survives both warm and cold starts.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.ram {
		b.ram[i] = 0
	}
}
