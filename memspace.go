// memspace.go - the six unified memory spaces addressable by DMA and the
// blitter (spec §3 "Unified memory spaces", §4.5, §4.6).

package main

const (
	SpaceCPURAM = 0
	SpaceChar   = 1
	SpaceColor  = 2
	SpaceGfx    = 3
	SpaceSprite = 4
	SpaceXRAM   = 5
	NumSpaces   = 6
)

// MemSpace is a zero-based byte-addressable region that DMA and the blitter
// can read from or write to (spec §4.5: "Addresses within each space are
// zero-based byte offsets"). Space 0 (CPU RAM) goes through the bus's normal
// device routing; the other spaces access their backing stores directly.
type MemSpace interface {
	Size() uint32
	ReadAt(off uint32) byte
	WriteAt(off uint32, v byte)
	// Writable reports whether the half-open range [off, off+length) can be
	// written in full. Space 0 uses this to reject ranges that touch ROM
	// ($C000+); every other space is always writable.
	Writable(off, length uint32) bool
}

// spaceFor resolves a DMA/blitter space id to its MemSpace, or nil if the
// id is out of range (caller reports BadSpace).
func (m *Machine) spaceFor(id byte) MemSpace {
	switch id {
	case SpaceCPURAM:
		return cpuRAMSpace{m.Bus}
	case SpaceChar:
		return charSpace{m.VGC}
	case SpaceColor:
		return colorSpace{m.VGC}
	case SpaceGfx:
		return gfxSpace{m.VGC}
	case SpaceSprite:
		return spriteShapeSpace{m.VGC}
	case SpaceXRAM:
		return xramSpace{m.XMC}
	default:
		return nil
	}
}

type cpuRAMSpace struct{ bus *Bus }

func (s cpuRAMSpace) Size() uint32      { return 65536 }
func (s cpuRAMSpace) ReadAt(off uint32) byte {
	return s.bus.Read8(uint16(off))
}
func (s cpuRAMSpace) WriteAt(off uint32, v byte) {
	s.bus.Write8(uint16(off), v)
}
func (s cpuRAMSpace) Writable(off, length uint32) bool {
	return off+length <= ROMBase
}

type charSpace struct{ vgc *VGC }

func (s charSpace) Size() uint32              { return CharRAMSize }
func (s charSpace) ReadAt(off uint32) byte    { return s.vgc.ReadCharRAM(uint16(off)) }
func (s charSpace) WriteAt(off uint32, v byte) { s.vgc.WriteCharRAM(uint16(off), v) }
func (s charSpace) Writable(off, length uint32) bool { return true }

type colorSpace struct{ vgc *VGC }

func (s colorSpace) Size() uint32              { return ColorRAMSize }
func (s colorSpace) ReadAt(off uint32) byte    { return s.vgc.ReadColorRAM(uint16(off)) }
func (s colorSpace) WriteAt(off uint32, v byte) { s.vgc.WriteColorRAM(uint16(off), v) }
func (s colorSpace) Writable(off, length uint32) bool { return true }

type gfxSpace struct{ vgc *VGC }

func (s gfxSpace) Size() uint32              { return GfxBitmapSize }
func (s gfxSpace) ReadAt(off uint32) byte    { return s.vgc.ReadGfxByte(off) }
func (s gfxSpace) WriteAt(off uint32, v byte) { s.vgc.WriteGfxByte(off, v) }
func (s gfxSpace) Writable(off, length uint32) bool { return true }

type spriteShapeSpace struct{ vgc *VGC }

func (s spriteShapeSpace) Size() uint32              { return SpriteShapeMemSize }
func (s spriteShapeSpace) ReadAt(off uint32) byte    { return s.vgc.ReadSpriteShapeByte(off) }
func (s spriteShapeSpace) WriteAt(off uint32, v byte) { s.vgc.WriteSpriteShapeByte(off, v) }
func (s spriteShapeSpace) Writable(off, length uint32) bool { return true }

type xramSpace struct{ xmc *XMC }

func (s xramSpace) Size() uint32              { return XRAMSize }
func (s xramSpace) ReadAt(off uint32) byte    { return s.xmc.ReadRawByte(off) }
func (s xramSpace) WriteAt(off uint32, v byte) { s.xmc.WriteRawByte(off, v) }
func (s xramSpace) Writable(off, length uint32) bool { return true }
