// xmc.go - expansion memory controller: 512 KiB backing store, page
// allocator, named block directory, CPU window mapping (spec §4.7).

package main

import (
	"sort"
	"strings"
	"sync"
)

type xramBlock struct {
	handle     byte
	name       string // trimmed, original case preserved for fetch/xdir output
	pageStart  int
	pageCount  int
	length     int
}

type xramWindow struct {
	enabled   bool
	pageIndex int
}

// XMC owns the 512 KiB backing array and all allocator/window/directory
// bookkeeping on top of it.
type XMC struct {
	mu sync.Mutex

	m *Machine

	xram        [XRAMSize]byte
	used        [XRAMPages]bool
	handlePool  []byte // free handles, ascending
	blocks      []*xramBlock
	windows     [NumXRAMWindows]xramWindow
	bank        byte
	dirCursor   int
	regs        [64]byte
}

func NewXMC(m *Machine) *XMC {
	x := &XMC{m: m}
	x.resetAllocator()
	return x
}

func (x *XMC) resetAllocator() {
	x.used = [XRAMPages]bool{}
	x.handlePool = make([]byte, NumHandles)
	for i := range x.handlePool {
		x.handlePool[i] = byte(i + 1)
	}
	x.blocks = nil
	x.dirCursor = 0
}

// Reset clears allocator bookkeeping, windows and registers but preserves
// XRAM byte content, matching spec §3's XRESET semantics. Used for warm
// start; the XCmdXReset command calls resetAllocator alone.
func (x *XMC) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.resetAllocator()
	x.windows = [NumXRAMWindows]xramWindow{}
	x.bank = 0
	x.regs = [64]byte{}
}

// ColdReset additionally zeroes the XRAM backing array.
func (x *XMC) ColdReset() {
	x.Reset()
	x.mu.Lock()
	defer x.mu.Unlock()
	x.xram = [XRAMSize]byte{}
}

func (x *XMC) Bank() byte {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.bank
}

func (x *XMC) ReadRawByte(off uint32) byte {
	x.mu.Lock()
	defer x.mu.Unlock()
	if off >= XRAMSize {
		return 0
	}
	return x.xram[off]
}

func (x *XMC) WriteRawByte(off uint32, v byte) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if off >= XRAMSize {
		return
	}
	x.xram[off] = v
}

// ReadWindow / WriteWindow service the CPU-bus XRAM window range
// BC00-BFFF. ok is false when the covering window is disabled, telling the
// bus to fall through to flat RAM.
func (x *XMC) ReadWindow(addr uint16) (byte, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	idx := int(addr-XRAMWindowBase) / XRAMWindowSize
	off := int(addr-XRAMWindowBase) % XRAMWindowSize
	w := x.windows[idx]
	if !w.enabled {
		return 0, false
	}
	return x.xram[w.pageIndex*XRAMPageSz+off], true
}

func (x *XMC) WriteWindow(addr uint16, v byte) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	idx := int(addr-XRAMWindowBase) / XRAMWindowSize
	off := int(addr-XRAMWindowBase) % XRAMWindowSize
	w := x.windows[idx]
	if !w.enabled {
		return false
	}
	x.xram[w.pageIndex*XRAMPageSz+off] = v
	return true
}

func (x *XMC) ReadReg(addr uint16) byte {
	x.mu.Lock()
	defer x.mu.Unlock()
	off := addr - XMCRegBase
	if off == XMCRegFreePages {
		return byte(min(255, x.freePageCount()))
	}
	return x.regs[off]
}

func (x *XMC) WriteReg(addr uint16, val byte) {
	x.mu.Lock()
	off := addr - XMCRegBase
	x.regs[off] = val
	switch off {
	case XMCRegBankNum:
		x.bank = val
	case XMCRegRW:
		x.dispatchRW(val)
	case XMCRegCmd:
		x.dispatch(val)
	}
	x.mu.Unlock()
}

func (x *XMC) u16(loOff, hiOff int) uint32 {
	return uint32(x.regs[loOff]) | uint32(x.regs[hiOff])<<8
}

func (x *XMC) setResult(status, errCode byte) {
	x.regs[XMCRegStatus] = status
	x.regs[XMCRegError] = errCode
}

func (x *XMC) dispatchRW(cmd byte) {
	off := uint32(x.bank)<<16 | x.u16(XMCRegOffLo, XMCRegOffHi)
	switch cmd {
	case XMCRWRead:
		if off < XRAMSize {
			x.regs[XMCRegData] = x.xram[off]
		}
	case XMCRWWrite:
		if off < XRAMSize {
			x.xram[off] = x.regs[XMCRegData]
		}
	}
}

func (x *XMC) freePageCount() int {
	n := 0
	for _, u := range x.used {
		if !u {
			n++
		}
	}
	return n
}

func pagesNeeded(length int) int {
	return (length + XRAMPageSz - 1) / XRAMPageSz
}

// allocPages finds the lowest-index contiguous free run, per spec §4.7.
func (x *XMC) allocPages(count int) (start int, ok bool) {
	run := 0
	for i := 0; i < XRAMPages; i++ {
		if !x.used[i] {
			run++
			if run == count {
				return i - count + 1, true
			}
		} else {
			run = 0
		}
	}
	return 0, false
}

func (x *XMC) takeHandle() (byte, bool) {
	if len(x.handlePool) == 0 {
		return 0, false
	}
	h := x.handlePool[0]
	x.handlePool = x.handlePool[1:]
	return h, true
}

func (x *XMC) releaseHandle(h byte) {
	x.handlePool = append(x.handlePool, h)
}

func (x *XMC) markPages(start, count int, used bool) {
	for i := start; i < start+count; i++ {
		x.used[i] = used
	}
}

func normalizeName(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < MinNameLen || len(trimmed) > MaxNameLen {
		return "", false
	}
	return trimmed, true
}

func (x *XMC) findBlock(name string) *xramBlock {
	for _, b := range x.blocks {
		if strings.EqualFold(b.name, name) {
			return b
		}
	}
	return nil
}

// freeRange releases every page in [pageStart, pageStart+pageCount) and
// removes any directory entry whose page range overlaps it, per spec §4.7.
func (x *XMC) freeRange(pageStart, pageCount int) {
	x.markPages(pageStart, pageCount, false)
	end := pageStart + pageCount
	kept := x.blocks[:0]
	for _, b := range x.blocks {
		bEnd := b.pageStart + b.pageCount
		if b.pageStart < end && bEnd > pageStart {
			x.releaseHandle(b.handle)
			continue
		}
		kept = append(kept, b)
	}
	x.blocks = kept
}

func (x *XMC) dispatch(cmd byte) {
	switch cmd {
	case XCmdAlloc:
		x.doAlloc()
	case XCmdFree:
		x.doFree()
	case XCmdStash:
		x.doStash()
	case XCmdFetch:
		x.doFetch()
	case XCmdDel:
		x.doDel()
	case XCmdDir:
		x.doDir()
	case XCmdDirReset:
		x.dirCursor = 0
		x.setResult(XStatusOK, XErrNone)
	case XCmdMapWindow:
		x.doMapWindow()
	case XCmdUnmapWindow:
		idx := int(x.regs[XMCRegWindowIdx])
		if idx < 0 || idx >= NumXRAMWindows {
			x.setResult(XStatusErr, XErrBadArgs)
			return
		}
		x.windows[idx].enabled = false
		x.setResult(XStatusOK, XErrNone)
	case XCmdXReset:
		x.resetAllocator()
		x.setResult(XStatusOK, XErrNone)
	default:
		x.setResult(XStatusErr, XErrBadArgs)
	}
}

func (x *XMC) doAlloc() {
	length := int(x.u16(XMCRegAllocLenLo, XMCRegAllocLenHi))
	if length <= 0 {
		x.setResult(XStatusErr, XErrBadArgs)
		return
	}
	pages := pagesNeeded(length)
	start, ok := x.allocPages(pages)
	if !ok {
		x.setResult(XStatusErr, XErrNoSpace)
		return
	}
	handle, ok := x.takeHandle()
	if !ok {
		x.setResult(XStatusErr, XErrNoSpace)
		return
	}
	x.markPages(start, pages, true)
	x.regs[XMCRegAllocHandle] = handle
	x.setResult(XStatusOK, XErrNone)
}

func (x *XMC) doFree() {
	off := int(x.u16(XMCRegFreeOffLo, XMCRegFreeOffHi))
	length := int(x.u16(XMCRegFreeLenLo, XMCRegFreeLenHi))
	if length <= 0 || off < 0 || off+length > XRAMSize {
		x.setResult(XStatusErr, XErrBadArgs)
		return
	}
	pageStart := off / XRAMPageSz
	pageEnd := (off + length - 1) / XRAMPageSz
	x.freeRange(pageStart, pageEnd-pageStart+1)
	x.setResult(XStatusOK, XErrNone)
}

func (x *XMC) readName() (string, bool) {
	ptr := uint16(x.u16(XMCRegNamePtrLo, XMCRegNamePtrHi))
	var raw []byte
	for i := 0; i < MaxNameLen+8; i++ {
		b := x.m.Bus.Read8(ptr + uint16(i))
		if b == 0 {
			break
		}
		raw = append(raw, b)
	}
	return normalizeName(string(raw))
}

// doStash implements spec §4.7's stash: overwrite in place if the existing
// allocation still fits, otherwise free and re-allocate.
func (x *XMC) doStash() {
	name, ok := x.readName()
	if !ok {
		x.setResult(XStatusErr, XErrName)
		return
	}
	ramPtr := uint16(x.u16(XMCRegRamPtrLo, XMCRegRamPtrHi))
	length := int(x.u16(XMCRegLenLo, XMCRegLenHi))
	if length <= 0 {
		x.setResult(XStatusErr, XErrBadArgs)
		return
	}
	data := x.m.Bus.ReadBlock(ramPtr, length)

	existing := x.findBlock(name)
	neededPages := pagesNeeded(length)
	if existing != nil && existing.pageCount >= neededPages {
		copy(x.xram[existing.pageStart*XRAMPageSz:], data)
		existing.length = length
		x.setResult(XStatusOK, XErrNone)
		return
	}
	if existing != nil {
		x.freeRange(existing.pageStart, existing.pageCount)
	}
	start, ok := x.allocPages(neededPages)
	if !ok {
		x.setResult(XStatusErr, XErrNoSpace)
		return
	}
	handle, ok := x.takeHandle()
	if !ok {
		x.setResult(XStatusErr, XErrNoSpace)
		return
	}
	x.markPages(start, neededPages, true)
	copy(x.xram[start*XRAMPageSz:], data)
	x.blocks = append(x.blocks, &xramBlock{handle: handle, name: name, pageStart: start, pageCount: neededPages, length: length})
	x.regs[XMCRegAllocHandle] = handle
	x.setResult(XStatusOK, XErrNone)
}

func (x *XMC) doFetch() {
	name, ok := x.readName()
	if !ok {
		x.setResult(XStatusErr, XErrName)
		return
	}
	b := x.findBlock(name)
	if b == nil {
		x.setResult(XStatusErr, XErrNotFound)
		return
	}
	ramPtr := uint16(x.u16(XMCRegRamPtrLo, XMCRegRamPtrHi))
	if int(ramPtr)+b.length > ROMBase {
		x.setResult(XStatusErr, XErrBadArgs)
		return
	}
	data := make([]byte, b.length)
	copy(data, x.xram[b.pageStart*XRAMPageSz:b.pageStart*XRAMPageSz+b.length])
	x.m.Bus.WriteBlock(ramPtr, data)
	x.regs[XMCRegLenLo] = byte(b.length)
	x.regs[XMCRegLenHi] = byte(b.length >> 8)
	x.setResult(XStatusOK, XErrNone)
}

func (x *XMC) doDel() {
	name, ok := x.readName()
	if !ok {
		x.setResult(XStatusErr, XErrName)
		return
	}
	b := x.findBlock(name)
	if b == nil {
		x.setResult(XStatusErr, XErrNotFound)
		return
	}
	x.freeRange(b.pageStart, b.pageCount)
	x.setResult(XStatusOK, XErrNone)
}

// doDir enumerates blocks in case-insensitive alphabetical order, writing
// the matched name to the RAM pointer buffer. Past the last entry the
// status stays at EndOfDir on every subsequent call until XCmdDirReset.
func (x *XMC) doDir() {
	names := make([]*xramBlock, len(x.blocks))
	copy(names, x.blocks)
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i].name) < strings.ToLower(names[j].name)
	})
	if x.dirCursor >= len(names) {
		x.setResult(XStatusErr, XErrEndOfDir)
		return
	}
	b := names[x.dirCursor]
	x.dirCursor++
	ramPtr := uint16(x.u16(XMCRegRamPtrLo, XMCRegRamPtrHi))
	out := append([]byte(b.name), 0)
	x.m.Bus.WriteBlock(ramPtr, out)
	x.regs[XMCRegDirHandle] = b.handle
	x.regs[XMCRegDirLenLo] = byte(b.length)
	x.regs[XMCRegDirLenHi] = byte(b.length >> 8)
	x.setResult(XStatusOK, XErrNone)
}

func (x *XMC) doMapWindow() {
	idx := int(x.regs[XMCRegWindowIdx])
	if idx < 0 || idx >= NumXRAMWindows {
		x.setResult(XStatusErr, XErrBadArgs)
		return
	}
	off := int(x.u16(XMCRegWindowOffLo, XMCRegWindowOffHi))
	if off < 0 || off >= XRAMSize {
		x.setResult(XStatusErr, XErrRange)
		return
	}
	x.windows[idx] = xramWindow{enabled: true, pageIndex: off / XRAMPageSz}
	x.setResult(XStatusOK, XErrNone)
}
