// fio_constants.go - file I/O controller register offsets and codes
// (spec §4.8, §6, §7).

package main

const (
	FIORegNamePtrLo = 0x00
	FIORegNamePtrHi = 0x01
	FIORegStartLo   = 0x02
	FIORegStartHi   = 0x03
	FIORegEndLo     = 0x04
	FIORegEndHi     = 0x05
	FIORegCmd       = 0x06
	FIORegStatus    = 0x07
	FIORegError     = 0x08
	FIORegResultLo  = 0x09
	FIORegResultHi  = 0x0A
)

const (
	FioCmdSave = 1
	FioCmdLoad = 2
	FioCmdDir  = 3
	FioCmdDel  = 4
)

const (
	FioStatusIdle = 0
	FioStatusOK   = 1
	FioStatusErr  = 2
)

const (
	FioErrNone     = 0
	FioErrNotFound = 1
	FioErrIo       = 2
	FioErrEndOfDir = 3
)

const maxFilenameLen = 63
