package main

import "testing"

func TestSIDWaveformNoiseBeatsPulsePriority(t *testing.T) {
	v := newSIDVoice()
	v.ctrl = SIDCtrlNoise | SIDCtrlPulse
	// pwLo/pwHi default to 0, so a pulse-only voice at accumulator 0 would
	// read top12(0) < pw(0) == false and return -2048; noise must win instead.
	if got := v.waveform(0); got != 2047 {
		t.Fatalf("waveform() with noise+pulse set = %v, want 2047 (noise wins)", got)
	}
}

func TestSIDWaveformPulseBeatsSawtoothPriority(t *testing.T) {
	v := newSIDVoice()
	v.ctrl = SIDCtrlPulse | SIDCtrlSawtooth
	v.pwLo, v.pwHi = 0xFF, 0x0F // pw = 0xFFF, top12(0) < pw, pulse returns 2047
	if got := v.waveform(0); got != 2047 {
		t.Fatalf("waveform() with pulse+sawtooth set = %v, want 2047 (pulse wins)", got)
	}
}

func TestSIDWaveformSawtoothBLEPRoundsTheEdge(t *testing.T) {
	v := newSIDVoice()
	v.ctrl = SIDCtrlSawtooth
	v.accumulator = 1 << 12 // top12 = 1, just past the sawtooth's wrap edge

	const dt = 0.01
	naive := float32(1) - 2048
	got := v.waveform(dt)
	if got == naive {
		t.Fatalf("waveform(%v) = %v, want the polyBLEP32 correction to move it off the naive ramp value %v", dt, got, naive)
	}
}

func TestSIDEngineReadSampleSoftClipsPastUnity(t *testing.T) {
	e := NewSIDEngine(44100)
	for chip := 0; chip < 2; chip++ {
		for v := 0; v < 3; v++ {
			base := uint16(v * sidVoiceStride)
			e.WriteReg(chip, base+SIDOffFreqLo, 0xFF)
			e.WriteReg(chip, base+SIDOffFreqHi, 0xFF)
			e.WriteReg(chip, base+SIDOffCtrl, SIDCtrlGate|SIDCtrlNoise)
			e.WriteReg(chip, base+SIDOffAD, 0x00) // fastest attack (2ms) and decay (6ms)
			e.WriteReg(chip, base+SIDOffSR, 0xF0) // sustain at full level, envLevel stays near 255
		}
		e.WriteReg(chip, SIDOffModeVol, SIDModeVolMask)
	}
	for i := 0; i < 200; i++ { // run past attack+decay so envLevel settles near full scale
		e.ReadSample()
	}
	var maxAbs float32
	for i := 0; i < 200; i++ {
		if s := e.ReadSample(); s > maxAbs {
			maxAbs = s
		} else if -s > maxAbs {
			maxAbs = -s
		}
	}
	if maxAbs <= 0 || maxAbs >= 1 {
		t.Fatalf("max |ReadSample()| over a driven mix = %v, want strictly within (0,1) from the fastTanh soft knee", maxAbs)
	}
}

func TestSIDEnvelopeAttackReachesFullThenDecaysToSustain(t *testing.T) {
	v := newSIDVoice()
	v.ctrl = SIDCtrlGate | SIDCtrlSawtooth
	v.ad = 0x00<<4 | 0x00  // fastest attack (2ms), fastest decay (6ms)
	v.sr = 0x08<<4 | 0x00  // sustain level 8/15, release irrelevant here

	const sampleRate = 44100
	for i := 0; i < sampleRate; i++ { // well over 2ms+6ms at 44.1kHz
		v.updateEnvelope(sampleRate)
	}
	if v.env != envSustain {
		t.Fatalf("envelope state = %v, want envSustain after attack+decay settle", v.env)
	}
	wantSustain := float32(8) * 17.0
	if v.envLevel < wantSustain-1 || v.envLevel > wantSustain+1 {
		t.Fatalf("envelope level = %v, want ~%v at sustain", v.envLevel, wantSustain)
	}
}

func TestSIDEnvelopeReleaseReachesOff(t *testing.T) {
	v := newSIDVoice()
	v.ctrl = SIDCtrlGate | SIDCtrlSawtooth
	v.ad = 0x00 << 4
	v.sr = 0x0F<<4 | 0x00 // release rate index 0, fastest

	const sampleRate = 44100
	for i := 0; i < sampleRate/10; i++ {
		v.updateEnvelope(sampleRate)
	}
	v.ctrl &^= SIDCtrlGate // release the gate
	for i := 0; i < sampleRate; i++ {
		v.updateEnvelope(sampleRate)
	}
	if v.env != envOff {
		t.Fatalf("envelope state = %v, want envOff after release settles", v.env)
	}
	if v.envLevel != 0 {
		t.Fatalf("envelope level = %v, want 0 at envOff", v.envLevel)
	}
}

func TestSIDFilterCutoff8580IsLinearAnd6581Compresses(t *testing.T) {
	c6581 := newSIDChip()
	c6581.model = SIDModel6581
	c6581.filterFcHi = 100 // cutoff = 100*8 = 800

	c8580 := newSIDChip()
	c8580.model = SIDModel8580
	c8580.filterFcHi = 100

	lo := c6581.cutoffHz()
	hi := c8580.cutoffHz()
	if hi <= lo {
		t.Fatalf("8580 cutoff (%v) should exceed 6581's compressed curve (%v) at this value", hi, lo)
	}
}

func TestSIDEngineWriteRegRoutesToChipAndVoice(t *testing.T) {
	e := NewSIDEngine(44100)
	e.WriteReg(0, sidVoiceStride*1+SIDOffFreqLo, 0x34) // voice 1's freqLo on chip 0
	e.WriteReg(0, sidVoiceStride*1+SIDOffFreqHi, 0x12)
	if got := e.chips[0].voices[1].freq(); got != 0x1234 {
		t.Fatalf("voice 1 freq = %#x, want 0x1234", got)
	}
	if got := e.chips[0].voices[0].freq(); got != 0 {
		t.Fatalf("voice 0 freq leaked from voice 1's write: got %#x, want 0", got)
	}
}

func TestSIDEngineReadSampleStaysInUnitRange(t *testing.T) {
	e := NewSIDEngine(44100)
	for chip := 0; chip < 2; chip++ {
		for v := 0; v < 3; v++ {
			base := uint16(v * sidVoiceStride)
			e.WriteReg(chip, base+SIDOffFreqLo, 0xFF)
			e.WriteReg(chip, base+SIDOffFreqHi, 0xFF)
			e.WriteReg(chip, base+SIDOffCtrl, SIDCtrlGate|SIDCtrlNoise)
		}
		e.WriteReg(chip, SIDOffModeVol, SIDModeVolMask)
	}
	for i := 0; i < 1000; i++ {
		if s := e.ReadSample(); s > 1 || s < -1 {
			t.Fatalf("ReadSample() = %v, want within [-1,1]", s)
		}
	}
}

func TestSIDEngineResetSilencesOutput(t *testing.T) {
	e := NewSIDEngine(44100)
	e.WriteReg(0, SIDOffFreqLo, 0xFF)
	e.WriteReg(0, SIDOffCtrl, SIDCtrlGate|SIDCtrlSawtooth)
	for i := 0; i < 100; i++ {
		e.ReadSample()
	}
	e.Reset()
	if got := e.ReadSample(); got != 0 {
		t.Fatalf("ReadSample() after Reset = %v, want 0", got)
	}
}
