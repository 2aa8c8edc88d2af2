// blitter_constants.go - blitter register offsets (spec §4.6, §6).

package main

const (
	BlitRegSrcSpace     = 0x00
	BlitRegSrcOffLo     = 0x01
	BlitRegSrcOffHi     = 0x02
	BlitRegSrcStrideLo  = 0x03
	BlitRegSrcStrideHi  = 0x04
	BlitRegDstSpace     = 0x05
	BlitRegDstOffLo     = 0x06
	BlitRegDstOffHi     = 0x07
	BlitRegDstStrideLo  = 0x08
	BlitRegDstStrideHi  = 0x09
	BlitRegWidthLo      = 0x0A
	BlitRegWidthHi      = 0x0B
	BlitRegHeightLo     = 0x0C
	BlitRegHeightHi     = 0x0D
	BlitRegMode         = 0x0E
	BlitRegColorKey     = 0x0F
	BlitRegFillValue    = 0x10
	BlitRegCmd          = 0x11
	BlitRegStatus       = 0x12
	BlitRegError        = 0x13
)

const (
	BlitCmdCopy = 1
	BlitCmdFill = 2
)

const BlitModeColorKey = 1 << 1

const (
	BlitStatusIdle = 0
	BlitStatusOK   = 1
	BlitStatusErr  = 2
)
