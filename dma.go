// dma.go - linear block-transfer engine across the unified memory spaces
// (spec §4.5).

package main

type DMA struct {
	m    *Machine
	regs [32]byte
}

func NewDMA(m *Machine) *DMA {
	return &DMA{m: m}
}

func (d *DMA) Reset() {
	d.regs = [32]byte{}
}

func (d *DMA) ReadReg(addr uint16) byte {
	return d.regs[addr-DMARegBase]
}

func (d *DMA) WriteReg(addr uint16, val byte) {
	off := addr - DMARegBase
	d.regs[off] = val
	if off == DMARegCmd {
		d.dispatch(val)
	}
}

func (d *DMA) u16(loOff, hiOff int) uint32 {
	return uint32(d.regs[loOff]) | uint32(d.regs[hiOff])<<8
}

// resolveOffset combines a raw 16-bit offset with the XMC's current XBANK
// when space is XRAM, sampled once at command start per spec §4.5: "the
// bank is sampled once at command start."
func (d *DMA) resolveOffset(space byte, off16 uint32) uint32 {
	if space == SpaceXRAM {
		bank := uint32(d.m.XMC.Bank())
		return bank<<16 | off16
	}
	return off16
}

func (d *DMA) setResult(status, errCode byte) {
	d.regs[DMARegStatus] = status
	d.regs[DMARegError] = errCode
}

func (d *DMA) dispatch(cmd byte) {
	srcSpace := d.regs[DMARegSrcSpace]
	dstSpace := d.regs[DMARegDstSpace]
	srcOff16 := d.u16(DMARegSrcOffLo, DMARegSrcOffHi)
	dstOff16 := d.u16(DMARegDstOffLo, DMARegDstOffHi)
	length := d.u16(DMARegLenLo, DMARegLenHi)
	fillVal := d.regs[DMARegFillValue]

	switch cmd {
	case DMACmdCopy:
		d.doCopy(srcSpace, srcOff16, dstSpace, dstOff16, length)
	case DMACmdFill:
		d.doFill(dstSpace, dstOff16, length, fillVal)
	default:
		d.setResult(DMAStatusErr, ErrBadCmd)
	}
}

func (d *DMA) doCopy(srcSpace byte, srcOff16 uint32, dstSpace byte, dstOff16 uint32, length uint32) {
	if length == 0 {
		d.setResult(DMAStatusErr, ErrBadArgs)
		return
	}
	src := d.m.spaceFor(srcSpace)
	dst := d.m.spaceFor(dstSpace)
	if src == nil || dst == nil {
		d.setResult(DMAStatusErr, ErrBadSpace)
		return
	}
	srcOff := d.resolveOffset(srcSpace, srcOff16)
	dstOff := d.resolveOffset(dstSpace, dstOff16)
	if srcOff+length > src.Size() || dstOff+length > dst.Size() {
		d.setResult(DMAStatusErr, ErrRange)
		return
	}
	if !dst.Writable(dstOff, length) {
		d.setResult(DMAStatusErr, ErrWriteProt)
		return
	}
	buf := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		buf[i] = src.ReadAt(srcOff + i)
	}
	for i := uint32(0); i < length; i++ {
		dst.WriteAt(dstOff+i, buf[i])
	}
	d.setResult(DMAStatusOK, ErrNone)
}

func (d *DMA) doFill(dstSpace byte, dstOff16 uint32, length uint32, value byte) {
	if length == 0 {
		d.setResult(DMAStatusErr, ErrBadArgs)
		return
	}
	dst := d.m.spaceFor(dstSpace)
	if dst == nil {
		d.setResult(DMAStatusErr, ErrBadSpace)
		return
	}
	dstOff := d.resolveOffset(dstSpace, dstOff16)
	if dstOff+length > dst.Size() {
		d.setResult(DMAStatusErr, ErrRange)
		return
	}
	if !dst.Writable(dstOff, length) {
		d.setResult(DMAStatusErr, ErrWriteProt)
		return
	}
	for i := uint32(0); i < length; i++ {
		dst.WriteAt(dstOff+i, value)
	}
	d.setResult(DMAStatusOK, ErrNone)
}
