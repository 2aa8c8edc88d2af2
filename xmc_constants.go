// xmc_constants.go - expansion memory controller register offsets, command
// and error codes (spec §4.7, §6, §7).

package main

const (
	XMCRegBankNum      = 0x00
	XMCRegOffLo        = 0x01
	XMCRegOffHi        = 0x02
	XMCRegData         = 0x03
	XMCRegRW           = 0x04
	XMCRegAllocLenLo   = 0x05
	XMCRegAllocLenHi   = 0x06
	XMCRegAllocHandle  = 0x07
	XMCRegFreeOffLo    = 0x08
	XMCRegFreeOffHi    = 0x09
	XMCRegFreeLenLo    = 0x0A
	XMCRegFreeLenHi    = 0x0B
	XMCRegNamePtrLo    = 0x0C
	XMCRegNamePtrHi    = 0x0D
	XMCRegRamPtrLo     = 0x0E
	XMCRegRamPtrHi     = 0x0F
	XMCRegLenLo        = 0x10
	XMCRegLenHi        = 0x11
	XMCRegWindowIdx    = 0x12
	XMCRegWindowOffLo  = 0x13
	XMCRegWindowOffHi  = 0x14
	XMCRegWindowEnable = 0x15
	XMCRegCmd          = 0x16
	XMCRegStatus       = 0x17
	XMCRegError        = 0x18
	XMCRegDirHandle    = 0x19
	XMCRegDirLenLo     = 0x1A
	XMCRegDirLenHi     = 0x1B
	XMCRegFreePages    = 0x1C // read-only: current count of unused pages
)

const (
	XMCRWRead  = 1
	XMCRWWrite = 2
)

const (
	XCmdAlloc       = 1
	XCmdFree        = 2
	XCmdStash       = 3
	XCmdFetch       = 4
	XCmdDel         = 5
	XCmdDir         = 6
	XCmdDirReset    = 7
	XCmdMapWindow   = 8
	XCmdUnmapWindow = 9
	XCmdXReset      = 10
)

const (
	XStatusIdle = 0
	XStatusOK   = 1
	XStatusErr  = 2
)

const (
	XErrNone     = 0
	XErrRange    = 1
	XErrBadArgs  = 2
	XErrNotFound = 3
	XErrNoSpace  = 4
	XErrName     = 5
	XErrEndOfDir = 6
)

const (
	XRAMSize    = 512 * 1024
	XRAMPageSz  = 256
	XRAMPages   = XRAMSize / XRAMPageSz
	NumHandles  = 255
	MinNameLen  = 1
	MaxNameLen  = 28
)
