// blitter.go - 2-D rectangular copy/fill with stride and color-key (spec §4.6).

package main

type Blitter struct {
	m    *Machine
	regs [32]byte
}

func NewBlitter(m *Machine) *Blitter {
	return &Blitter{m: m}
}

func (bl *Blitter) Reset() {
	bl.regs = [32]byte{}
}

func (bl *Blitter) ReadReg(addr uint16) byte {
	return bl.regs[addr-BlitterRegBase]
}

func (bl *Blitter) WriteReg(addr uint16, val byte) {
	off := addr - BlitterRegBase
	bl.regs[off] = val
	if off == BlitRegCmd {
		bl.dispatch(val)
	}
}

func (bl *Blitter) u16(loOff, hiOff int) uint16 {
	return uint16(bl.regs[loOff]) | uint16(bl.regs[hiOff])<<8
}

func (bl *Blitter) resolveOffset(space byte, off16 uint32) uint32 {
	if space == SpaceXRAM {
		bank := uint32(bl.m.XMC.Bank())
		return bank<<16 | off16
	}
	return off16
}

func (bl *Blitter) setResult(status, errCode byte) {
	bl.regs[BlitRegStatus] = status
	bl.regs[BlitRegError] = errCode
}

func (bl *Blitter) dispatch(cmd byte) {
	srcSpace := bl.regs[BlitRegSrcSpace]
	dstSpace := bl.regs[BlitRegDstSpace]
	srcOff := uint32(bl.u16(BlitRegSrcOffLo, BlitRegSrcOffHi))
	srcStride := int(int16(bl.u16(BlitRegSrcStrideLo, BlitRegSrcStrideHi)))
	dstOff := uint32(bl.u16(BlitRegDstOffLo, BlitRegDstOffHi))
	dstStride := int(int16(bl.u16(BlitRegDstStrideLo, BlitRegDstStrideHi)))
	width := int(int16(bl.u16(BlitRegWidthLo, BlitRegWidthHi)))
	height := int(int16(bl.u16(BlitRegHeightLo, BlitRegHeightHi)))
	mode := bl.regs[BlitRegMode]
	colorKey := bl.regs[BlitRegColorKey]
	fillVal := bl.regs[BlitRegFillValue]

	switch cmd {
	case BlitCmdCopy:
		bl.doCopy(srcSpace, srcOff, srcStride, dstSpace, dstOff, dstStride, width, height, mode, colorKey)
	case BlitCmdFill:
		bl.doFill(dstSpace, dstOff, dstStride, width, height, fillVal)
	default:
		bl.setResult(BlitStatusErr, ErrBadCmd)
	}
}

func (bl *Blitter) doCopy(srcSpace byte, srcOff0 uint32, srcStride int, dstSpace byte, dstOff0 uint32, dstStride int, width, height int, mode, colorKey byte) {
	if width <= 0 || height <= 0 {
		bl.setResult(BlitStatusErr, ErrBadArgs)
		return
	}
	src := bl.m.spaceFor(srcSpace)
	dst := bl.m.spaceFor(dstSpace)
	if src == nil || dst == nil {
		bl.setResult(BlitStatusErr, ErrBadSpace)
		return
	}
	srcOff := bl.resolveOffset(srcSpace, srcOff0)
	dstOff := bl.resolveOffset(dstSpace, dstOff0)

	for row := 0; row < height; row++ {
		sRow := int64(srcOff) + int64(row)*int64(srcStride)
		dRow := int64(dstOff) + int64(row)*int64(dstStride)
		if sRow < 0 || sRow+int64(width) > int64(src.Size()) {
			bl.setResult(BlitStatusErr, ErrRange)
			return
		}
		if dRow < 0 || dRow+int64(width) > int64(dst.Size()) {
			bl.setResult(BlitStatusErr, ErrRange)
			return
		}
		if !dst.Writable(uint32(dRow), uint32(width)) {
			bl.setResult(BlitStatusErr, ErrWriteProt)
			return
		}
	}

	colorKeyOn := mode&BlitModeColorKey != 0
	rowBuf := make([]byte, width)
	for row := 0; row < height; row++ {
		sRow := uint32(int64(srcOff) + int64(row)*int64(srcStride))
		dRow := uint32(int64(dstOff) + int64(row)*int64(dstStride))
		for i := 0; i < width; i++ {
			rowBuf[i] = src.ReadAt(sRow + uint32(i))
		}
		for i := 0; i < width; i++ {
			if colorKeyOn && rowBuf[i] == colorKey {
				continue
			}
			dst.WriteAt(dRow+uint32(i), rowBuf[i])
		}
	}
	bl.setResult(BlitStatusOK, ErrNone)
}

func (bl *Blitter) doFill(dstSpace byte, dstOff0 uint32, dstStride int, width, height int, value byte) {
	if width <= 0 || height <= 0 {
		bl.setResult(BlitStatusErr, ErrBadArgs)
		return
	}
	dst := bl.m.spaceFor(dstSpace)
	if dst == nil {
		bl.setResult(BlitStatusErr, ErrBadSpace)
		return
	}
	dstOff := bl.resolveOffset(dstSpace, dstOff0)

	for row := 0; row < height; row++ {
		dRow := int64(dstOff) + int64(row)*int64(dstStride)
		if dRow < 0 || dRow+int64(width) > int64(dst.Size()) {
			bl.setResult(BlitStatusErr, ErrRange)
			return
		}
		if !dst.Writable(uint32(dRow), uint32(width)) {
			bl.setResult(BlitStatusErr, ErrWriteProt)
			return
		}
	}
	for row := 0; row < height; row++ {
		dRow := uint32(int64(dstOff) + int64(row)*int64(dstStride))
		for i := 0; i < width; i++ {
			dst.WriteAt(dRow+uint32(i), value)
		}
	}
	bl.setResult(BlitStatusOK, ErrNone)
}
