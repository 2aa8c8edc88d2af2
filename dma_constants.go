// dma_constants.go - DMA register offsets and error taxonomy (spec §4.5, §6, §7).

package main

const (
	DMARegSrcSpace  = 0x00
	DMARegSrcOffLo  = 0x01
	DMARegSrcOffHi  = 0x02
	DMARegDstSpace  = 0x03
	DMARegDstOffLo  = 0x04
	DMARegDstOffHi  = 0x05
	DMARegLenLo     = 0x06
	DMARegLenHi     = 0x07
	DMARegFillValue = 0x08
	DMARegCmd       = 0x09
	DMARegStatus    = 0x0A
	DMARegError     = 0x0B
)

const (
	DMACmdCopy = 1
	DMACmdFill = 2
)

const (
	DMAStatusIdle = 0
	DMAStatusOK   = 1
	DMAStatusErr  = 2
)

const (
	ErrNone      = 0
	ErrBadCmd    = 1
	ErrBadSpace  = 2
	ErrRange     = 3
	ErrBadArgs   = 4
	ErrWriteProt = 5
)
