// machine.go - wires every device onto one bus and drives the fixed 60 Hz
// frame tick (spec §4.1 "single-threaded cooperative model", §4.2's
// raster-synchronous ordering).

package main

// Machine owns the bus and every memory-mapped coprocessor, and is the back
// reference each device holds for cross-device access (XMC bank lookups,
// DMA/blitter space resolution, FIO CPU-RAM reads).
type Machine struct {
	Bus *Bus

	VGC   *VGC
	XMC   *XMC
	DMA   *DMA
	Blit  *Blitter
	FIO   *FIOController
	SID   *SIDEngine
	Music *MusicEngine

	frameCount uint64
}

// NewMachine constructs every device and wires their back references. The
// bus is built first since devices' registered addresses are static, then
// each device gets a pointer to the machine so it can reach the bus and its
// sibling devices.
func NewMachine(baseDir string, sampleRate int) *Machine {
	m := &Machine{Bus: NewBus()}

	m.VGC = NewVGC()
	m.VGC.m = m
	m.XMC = NewXMC(m)
	m.DMA = NewDMA(m)
	m.Blit = NewBlitter(m)
	m.FIO = NewFIOController(m, baseDir)
	m.SID = NewSIDEngine(sampleRate)
	m.Music = NewMusicEngine(m, m.SID)

	m.Bus.vgc = m.VGC
	m.Bus.fio = m.FIO
	m.Bus.xmc = m.XMC
	m.Bus.dma = m.DMA
	m.Bus.blit = m.Blit
	m.Bus.sid = m.SID
	m.Bus.music = m.Music

	return m
}

// LoadROM installs a ROM image at ROMBase, readable but not writable by the
// CPU.
func (m *Machine) LoadROM(img []byte) {
	m.Bus.LoadROM(img)
}

// ColdStart resets every device to its power-on state, including clearing
// RAM, video memories and expansion RAM.
func (m *Machine) ColdStart() {
	m.Bus.Reset()
	m.VGC.ColdReset()
	m.XMC.ColdReset()
	m.DMA.Reset()
	m.Blit.Reset()
	m.FIO.Reset()
	m.SID.Reset()
	m.Music.Reset()
	m.frameCount = 0
}

// Reset performs a warm reset (e.g. the CPU's RESET vector): register and
// controller state returns to defaults but backing stores (XRAM contents,
// file system) are preserved.
func (m *Machine) Reset() {
	m.VGC.Reset()
	m.XMC.Reset()
	m.DMA.Reset()
	m.Blit.Reset()
	m.FIO.Reset()
	m.SID.Reset()
	m.Music.Reset()
}

// OnFrame advances the machine by one 60 Hz video frame. The CPU is expected
// to have retired its instructions for the frame before this runs, per
// spec §4.1's "CPU instruction retires before device mutation is observed".
// The ordering here is fixed by spec §4.2: pending copper list swap, sprite
// priority/collision snapshot, music sequencer tick, then composition.
func (m *Machine) OnFrame() {
	m.VGC.swapActiveList()
	m.VGC.buildPriorityMaps()
	m.VGC.computeCollisions()

	m.Music.OnFrame()
	m.Music.reclaimFinishedSFX()

	m.VGC.Compose()

	m.frameCount++
}

// FrameCount returns the number of frames advanced since the last cold
// start, used by callers driving the main loop and by tests asserting tick
// ordering.
func (m *Machine) FrameCount() uint64 {
	return m.frameCount
}
