// sid.go - two 3-voice SID chips: phase-accumulator oscillators, ADSR
// envelopes and a resonant filter, synthesized digitally (spec §4.9).

package main

import (
	"math"
	"sync"
)

type sidVoice struct {
	freqLo, freqHi byte
	pwLo, pwHi     byte
	ctrl           byte
	ad, sr         byte

	accumulator uint32
	noiseSR     uint32
	prevBit19   bool

	env      envState
	envLevel float32 // 0..255
	gateOn   bool
}

func newSIDVoice() sidVoice {
	return sidVoice{noiseSR: 0x7FFFFF}
}

func (vo *sidVoice) freq() uint16 {
	return uint16(vo.freqLo) | uint16(vo.freqHi)<<8
}

func (vo *sidVoice) pulseWidth() uint16 {
	return uint16(vo.pwLo) | uint16(vo.pwHi&0x0F)<<8
}

// advance moves the phase accumulator, the envelope and (on a rising bit-19
// transition) the noise LFSR, then returns the waveform sample (-2048..2047)
// scaled by the envelope level.
func (vo *sidVoice) advance(clockHz uint32, sampleRate int) float32 {
	freq := vo.freq()
	accInc := uint32(float64(freq) * float64(clockHz) / float64(sampleRate))
	vo.accumulator = (vo.accumulator + accInc) & 0xFFFFFF

	bit19 := vo.accumulator&(1<<19) != 0
	if bit19 && !vo.prevBit19 {
		newBit := ((vo.noiseSR >> noiseTap1) ^ (vo.noiseSR >> noiseTap2)) & 1
		vo.noiseSR = ((vo.noiseSR << 1) | newBit) & noiseLFSRMask
	}
	vo.prevBit19 = bit19

	vo.updateEnvelope(sampleRate)

	// dt is the phase step per sample in the waveform's 12-bit domain
	// (accumulator>>12), normalized to 0..1: the polyBLEP32 correction
	// width sawtooth/pulse edges need to band-limit their discontinuities.
	dt := float32(accInc>>12) / 4096.0
	sample := vo.waveform(dt)
	return sample * (vo.envLevel / 255.0)
}

// waveform selects among triangle/sawtooth/pulse/noise by control-bit
// priority (noise > pulse > sawtooth > triangle), reading the accumulator's
// top bits per spec §4.9. Sawtooth and pulse are naive ramps/steps with a
// hard discontinuity each cycle; polyBLEP32 (audio_lut.go) smooths that
// discontinuity over dt samples so it doesn't alias as harshly.
func (vo *sidVoice) waveform(dt float32) float32 {
	ctrl := vo.ctrl
	top12 := vo.accumulator >> 12

	switch {
	case ctrl&SIDCtrlNoise != 0:
		return float32(vo.noiseSR&0xFFF) - 2048
	case ctrl&SIDCtrlPulse != 0:
		pw := vo.pulseWidth()
		t := float32(top12) / 4096.0
		pwT := float32(pw) / 4096.0
		out := float32(-2048)
		if t < pwT {
			out = 2047
		}
		out += blepAmplitude * polyBLEP32(t, dt)
		fall := t - pwT
		if fall < 0 {
			fall += 1.0
		}
		out -= blepAmplitude * polyBLEP32(fall, dt)
		return out
	case ctrl&SIDCtrlSawtooth != 0:
		t := float32(top12) / 4096.0
		return float32(top12) - 2048 - blepAmplitude*polyBLEP32(t, dt)
	case ctrl&SIDCtrlTriangle != 0:
		tri := vo.accumulator >> 11 & 0xFFF
		if vo.accumulator&(1<<23) != 0 {
			tri = ^tri & 0xFFF
		}
		return float32(tri) - 2048
	default:
		return 0
	}
}

// updateEnvelope steps the ADSR state machine by one sample, per spec §4.9:
// "a state machine {attack, decay, sustain, release, off} with per-step
// increments indexed by the 4-bit rate nibbles."
func (vo *sidVoice) updateEnvelope(sampleRate int) {
	gate := vo.ctrl&SIDCtrlGate != 0
	if gate && !vo.gateOn {
		vo.env = envAttack
	} else if !gate && vo.gateOn {
		vo.env = envRelease
	}
	vo.gateOn = gate

	attack := (vo.ad >> 4) & 0x0F
	decay := vo.ad & 0x0F
	sustain := (vo.sr >> 4) & 0x0F
	release := vo.sr & 0x0F
	sustainLevel := float32(sustain) * 17.0 // 0..15 -> 0..255

	switch vo.env {
	case envAttack:
		rate := 255.0 / (sidAttackMs[attack] / 1000.0 * float32(sampleRate))
		vo.envLevel += rate
		if vo.envLevel >= 255 {
			vo.envLevel = 255
			vo.env = envDecay
		}
	case envDecay:
		span := sidDecayReleaseMs[decay] / 1000.0 * float32(sampleRate)
		rate := (255.0 - sustainLevel) / span
		vo.envLevel -= rate
		if vo.envLevel <= sustainLevel {
			vo.envLevel = sustainLevel
			vo.env = envSustain
		}
	case envSustain:
		vo.envLevel = sustainLevel
	case envRelease:
		span := sidDecayReleaseMs[release] / 1000.0 * float32(sampleRate)
		rate := 255.0 / span
		vo.envLevel -= rate
		if vo.envLevel <= 0 {
			vo.envLevel = 0
			vo.env = envOff
		}
	case envOff:
		vo.envLevel = 0
	}
}

// sidFilter is a simple state-variable filter shared by the three voices
// routed through it, per chip.
type sidFilter struct {
	low, band float32
}

func (f *sidFilter) process(input, cutoffNorm, resNorm float32) (lp, bp, hp float32) {
	fc := cutoffNorm
	q := 1.0 - resNorm*0.9
	hp = input - f.low - q*f.band
	f.band += fc * hp
	f.low += fc * f.band
	return f.low, f.band, hp
}

type sidChip struct {
	voices        [3]sidVoice
	filterFcLo    byte
	filterFcHi    byte
	resFilt       byte
	modeVol       byte
	model         int
	filter        sidFilter
}

func newSIDChip() sidChip {
	return sidChip{voices: [3]sidVoice{newSIDVoice(), newSIDVoice(), newSIDVoice()}}
}

func (c *sidChip) writeReg(offset uint16, val byte) {
	switch {
	case offset < sidVoiceStride*3:
		voice := offset / sidVoiceStride
		field := offset % sidVoiceStride
		v := &c.voices[voice]
		switch field {
		case SIDOffFreqLo:
			v.freqLo = val
		case SIDOffFreqHi:
			v.freqHi = val
		case SIDOffPWLo:
			v.pwLo = val
		case SIDOffPWHi:
			v.pwHi = val
		case SIDOffCtrl:
			v.ctrl = val
		case SIDOffAD:
			v.ad = val
		case SIDOffSR:
			v.sr = val
		}
	case offset == SIDOffFilterFcLo:
		c.filterFcLo = val
	case offset == SIDOffFilterFcHi:
		c.filterFcHi = val
	case offset == SIDOffResFilt:
		c.resFilt = val
	case offset == SIDOffModeVol:
		c.modeVol = val
	}
}

// cutoffHz maps the 11-bit filter cutoff to Hz using a model-dependent
// curve: 8580 is closer to linear, 6581 compresses low values and expands
// at the top (spec §4.9, "digital approximation is sufficient").
func (c *sidChip) cutoffHz() float64 {
	fcLo := uint16(c.filterFcLo) & 0x07
	fcHi := uint16(c.filterFcHi)
	cutoff := float64(fcLo | fcHi<<3)
	if cutoff == 0 {
		return 30
	}
	if c.model == SIDModel8580 {
		return 30 + cutoff*5.8
	}
	return 30 + math.Pow(cutoff, 1.35)*0.22
}

func (c *sidChip) advance(clockHz uint32, sampleRate int) float32 {
	raw := [3]float32{}
	for i := range c.voices {
		raw[i] = c.voices[i].advance(clockHz, sampleRate)
	}

	routing := c.resFilt & 0x0F
	resonance := float32(c.resFilt&SIDFiltRes>>4) / 15.0
	maxCutoff := 12000.0
	if c.model == SIDModel8580 {
		maxCutoff = 18000.0
	}
	cutoffHz := c.cutoffHz()
	if cutoffHz > maxCutoff {
		cutoffHz = maxCutoff
	}
	cutoffNorm := float32(math.Log(cutoffHz/30) / math.Log(maxCutoff/30))
	if cutoffNorm < 0 {
		cutoffNorm = 0
	} else if cutoffNorm > 1 {
		cutoffNorm = 1
	}

	var filtered, unfiltered float32
	for i := range raw {
		if routing&(1<<uint(i)) != 0 {
			filtered += raw[i]
		} else {
			unfiltered += raw[i]
		}
	}

	var mixedFiltered float32
	if routing != 0 {
		lp, bp, hp := c.filter.process(filtered, cutoffNorm, resonance)
		if c.modeVol&SIDModeLP != 0 {
			mixedFiltered += lp
		}
		if c.modeVol&SIDModeBP != 0 {
			mixedFiltered += bp
		}
		if c.modeVol&SIDModeHP != 0 {
			mixedFiltered += hp
		}
	}

	out := unfiltered + mixedFiltered
	if c.modeVol&SIDMode3Off != 0 {
		out -= raw[2]
	}

	masterVol := float32(c.modeVol&SIDModeVolMask) / 15.0
	return (out / 4096.0) * masterVol
}

func (c *sidChip) reset() {
	*c = newSIDChip()
}

// SIDEngine owns both SID chips and produces the mixed output sample stream
// consumed by the audio backend.
type SIDEngine struct {
	mu         sync.Mutex
	chips      [2]sidChip
	sampleRate int
	clockHz    uint32
}

func NewSIDEngine(sampleRate int) *SIDEngine {
	return &SIDEngine{
		chips:      [2]sidChip{newSIDChip(), newSIDChip()},
		sampleRate: sampleRate,
		clockHz:    SIDClockPAL,
	}
}

func (e *SIDEngine) SetModel(chip int, model int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if chip < 0 || chip > 1 {
		return
	}
	if model == SIDModel6581 || model == SIDModel8580 {
		e.chips[chip].model = model
	}
}

// WriteReg intercepts a CPU write to SID1/SID2 (or the D500 mirror, which
// the bus already maps onto chip 1). offset is relative to the chip's own
// 29-byte register block.
func (e *SIDEngine) WriteReg(chip int, offset uint16, val byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if chip < 0 || chip > 1 || offset >= SIDRegCount {
		return
	}
	e.chips[chip].writeReg(offset, val)
}

// ReadSample advances both chips by one sample interval and returns their
// summed, soft-clipped output, matching spec §4.9's "three voice outputs are
// summed... scaled by master volume" per chip, mixed across the two chips.
// Two chips driven hard can sum past unit scale; fastTanh (audio_lut.go)
// rounds that off instead of hard-clipping into a flat-top square wave.
func (e *SIDEngine) ReadSample() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.chips[0].advance(e.clockHz, e.sampleRate) + e.chips[1].advance(e.clockHz, e.sampleRate)
	s *= 0.5
	return fastTanh(s * sidSoftClipDrive)
}

func (e *SIDEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.chips {
		e.chips[i].reset()
	}
}
