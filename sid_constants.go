// sid_constants.go - MOS 6581/8580 SID register layout, timing tables and
// filter constants (spec §4.9, §6).

package main

// Per-chip register offsets, relative to the chip's own 29-byte block
// (SID1 at D400, SID2 at D420; the D500 mirror aliases SID2's block).
const (
	SIDRegCount = 29

	sidVoiceStride = 7 // bytes per voice: freqLo,freqHi,pwLo,pwHi,ctrl,ad,sr

	SIDOffFreqLo = 0
	SIDOffFreqHi = 1
	SIDOffPWLo   = 2
	SIDOffPWHi   = 3
	SIDOffCtrl   = 4
	SIDOffAD     = 5
	SIDOffSR     = 6

	SIDOffFilterFcLo = 0x15
	SIDOffFilterFcHi = 0x16
	SIDOffResFilt    = 0x17
	SIDOffModeVol    = 0x18
)

// SID clock frequencies (Hz)
const (
	SIDClockPAL  = 985248
	SIDClockNTSC = 1022727
)

// Chip model: affects the filter's cutoff-to-Hz curve.
const (
	SIDModel6581 = 0 // non-linear filter, warmer
	SIDModel8580 = 1 // linear filter, cleaner
)

// Voice control register bits
const (
	SIDCtrlGate     = 0x01
	SIDCtrlSync     = 0x02
	SIDCtrlRingMod  = 0x04
	SIDCtrlTest     = 0x08
	SIDCtrlTriangle = 0x10
	SIDCtrlSawtooth = 0x20
	SIDCtrlPulse    = 0x40
	SIDCtrlNoise    = 0x80
)

// Filter routing/resonance register bits
const (
	SIDFiltV1  = 0x01
	SIDFiltV2  = 0x02
	SIDFiltV3  = 0x04
	SIDFiltExt = 0x08
	SIDFiltRes = 0xF0
)

// Mode/volume register bits
const (
	SIDModeVolMask = 0x0F
	SIDModeLP      = 0x10
	SIDModeBP      = 0x20
	SIDModeHP      = 0x40
	SIDMode3Off    = 0x80
)

// ADSR timing tables, values in milliseconds, indexed by the 4-bit rate
// nibble. Approximations of the SID's exponential decay curve.
var sidAttackMs = [16]float32{
	2, 8, 16, 24, 38, 56, 68, 80,
	100, 250, 500, 800, 1000, 3000, 5000, 8000,
}

var sidDecayReleaseMs = [16]float32{
	6, 24, 48, 72, 114, 168, 204, 240,
	300, 750, 1500, 2400, 3000, 9000, 15000, 24000,
}

// envState enumerates the ADSR state machine.
type envState int

const (
	envAttack envState = iota
	envDecay
	envSustain
	envRelease
	envOff
)

// Waveform selection, in priority order when more than one control bit is
// set: noise beats pulse beats sawtooth beats triangle.
const (
	waveTriangle = iota
	waveSawtooth
	wavePulse
	waveNoise
)

const (
	noiseLFSRBits = 23
	noiseLFSRMask = 1<<noiseLFSRBits - 1
	noiseTap1     = 22
	noiseTap2     = 17
)

// blepAmplitude is half the naive sawtooth/pulse waveform's peak-to-peak
// swing (-2048..2047), the scale polyBLEP32's unit-amplitude correction is
// multiplied by when band-limiting those edges in sidVoice.waveform.
const blepAmplitude = 2048.0

// sidSoftClipDrive shapes how hard the mixer's fastTanh soft clip (sid.go's
// SIDEngine.ReadSample) bites before the signal nears full scale.
const sidSoftClipDrive = 1.6
