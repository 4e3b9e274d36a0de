// Package apu implements the Game Boy's audio processing unit: four
// channels (two pulse, one wave, one noise), the 512 Hz frame
// sequencer that drives their length/envelope/sweep units, the NR50/
// NR51 mixer and a fixed-point resampler down to the host's output
// sample rate.
package apu

import "github.com/thelolagemann/gomeboy/internal/types"

const dotsPerSecond = 4194304

// Sample is one stereo frame, signed 16-bit per channel.
type Sample struct {
	Left, Right int16
}

type APU struct {
	enabled bool

	ch1 pulseChannel
	ch2 pulseChannel
	ch3 waveChannel
	ch4 noiseChannel

	seqStep uint8
	seqDots int

	volumeLeft, volumeRight uint8
	vinLeft, vinRight       bool
	panLeft, panRight       [4]bool // index by channel 1-4

	sampleRate  int
	sampleAcc   float64
	dotsPerSamp float64
	buffer      []Sample
}

func New(sampleRate int) *APU {
	a := &APU{sampleRate: sampleRate}
	a.ch1.hasSweep = true
	a.setSampleRate(sampleRate)
	return a
}

func (a *APU) setSampleRate(rate int) {
	if rate <= 0 {
		rate = 44100
	}
	a.sampleRate = rate
	a.dotsPerSamp = float64(dotsPerSecond) / float64(rate)
}

// Tick advances every channel and the frame sequencer by dots real
// dots (always real hardware rate; double-speed adjustment, like the
// PPU's, happens in the facade before calling in) and appends
// resampled output frames to the pending buffer.
func (a *APU) Tick(dots uint8) {
	if a.enabled {
		a.ch1.tick(dots)
		a.ch2.tick(dots)
		a.ch3.tick(dots)
		a.ch4.tick(dots)

		a.seqDots += int(dots)
		for a.seqDots >= dotsPerSecond/512 {
			a.seqDots -= dotsPerSecond / 512
			a.stepSequencer()
		}
	}

	a.sampleAcc += float64(dots)
	for a.sampleAcc >= a.dotsPerSamp {
		a.sampleAcc -= a.dotsPerSamp
		a.buffer = append(a.buffer, a.mix())
	}
}

func (a *APU) stepSequencer() {
	switch a.seqStep {
	case 0, 4:
		a.ch1.tickLength()
		a.ch2.tickLength()
		a.ch3.tickLength()
		a.ch4.tickLength()
	case 2, 6:
		a.ch1.tickLength()
		a.ch2.tickLength()
		a.ch3.tickLength()
		a.ch4.tickLength()
		a.ch1.tickSweep()
	case 7:
		a.ch1.tickEnvelope()
		a.ch2.tickEnvelope()
		a.ch4.tickEnvelope()
	}
	a.seqStep = (a.seqStep + 1) % 8
}

func (a *APU) mix() Sample {
	if !a.enabled {
		return Sample{}
	}
	samples := [4]int8{a.ch1.sample(), a.ch2.sample(), a.ch3.sample(), a.ch4.sample()}
	var left, right int32
	for i, s := range samples {
		if a.panLeft[i] {
			left += int32(s)
		}
		if a.panRight[i] {
			right += int32(s)
		}
	}
	// each channel contributes 0-15; 4 channels max 60, scaled into
	// int16 range and shaped by the NR50 master volume (1-8).
	left = left * int32(a.volumeLeft+1) * 128 / 8
	right = right * int32(a.volumeRight+1) * 128 / 8
	return Sample{Left: clampSample(left), Right: clampSample(right)}
}

func clampSample(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// DrainSamples returns and clears every pending output frame.
func (a *APU) DrainSamples() []Sample {
	out := a.buffer
	a.buffer = nil
	return out
}

func (a *APU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case types.NR50:
		v := a.volumeRight | a.volumeLeft<<4
		if a.vinRight {
			v |= 0x08
		}
		if a.vinLeft {
			v |= 0x80
		}
		return v
	case types.NR51:
		return a.nr51()
	case types.NR52:
		v := uint8(0x70)
		if a.enabled {
			v |= 0x80
		}
		if a.ch1.enabled {
			v |= 0x01
		}
		if a.ch2.enabled {
			v |= 0x02
		}
		if a.ch3.enabled {
			v |= 0x04
		}
		if a.ch4.enabled {
			v |= 0x08
		}
		return v
	}
	if addr >= types.WaveRAMStart && addr <= types.WaveRAMEnd {
		return a.ch3.ram[addr-types.WaveRAMStart]
	}
	return 0xFF
}

func (a *APU) nr51() uint8 {
	var v uint8
	for i := 0; i < 4; i++ {
		if a.panRight[i] {
			v |= 1 << i
		}
		if a.panLeft[i] {
			v |= 1 << (i + 4)
		}
	}
	return v
}

func (a *APU) WriteRegister(addr uint16, v uint8) {
	if addr >= types.WaveRAMStart && addr <= types.WaveRAMEnd {
		a.ch3.ram[addr-types.WaveRAMStart] = v
		return
	}
	if addr == types.NR52 {
		a.enabled = v&0x80 != 0
		if !a.enabled {
			a.ch1 = pulseChannel{hasSweep: true}
			a.ch2 = pulseChannel{}
			a.ch3.enabled, a.ch3.dacOn = false, false
			a.ch4 = noiseChannel{}
		}
		return
	}
	if !a.enabled {
		return
	}
	switch addr {
	case types.NR10:
		a.ch1.writeSweep(v)
	case types.NR11:
		a.ch1.writeNRx1(v)
	case types.NR12:
		a.ch1.writeNRx2(v)
	case types.NR13:
		a.ch1.writeNRx3(v)
	case types.NR14:
		a.ch1.writeNRx4(v)
	case types.NR21:
		a.ch2.writeNRx1(v)
	case types.NR22:
		a.ch2.writeNRx2(v)
	case types.NR23:
		a.ch2.writeNRx3(v)
	case types.NR24:
		a.ch2.writeNRx4(v)
	case types.NR30:
		a.ch3.writeNR30(v)
	case types.NR31:
		a.ch3.writeNR31(v)
	case types.NR32:
		a.ch3.writeNR32(v)
	case types.NR33:
		a.ch3.writeNR33(v)
	case types.NR34:
		a.ch3.writeNR34(v)
	case types.NR41:
		a.ch4.writeNR41(v)
	case types.NR42:
		a.ch4.writeNR42(v)
	case types.NR43:
		a.ch4.writeNR43(v)
	case types.NR44:
		a.ch4.writeNR44(v)
	case types.NR50:
		a.volumeRight = v & 0x07
		a.volumeLeft = (v >> 4) & 0x07
		a.vinRight = v&0x08 != 0
		a.vinLeft = v&0x80 != 0
	case types.NR51:
		for i := 0; i < 4; i++ {
			a.panRight[i] = v&(1<<i) != 0
			a.panLeft[i] = v&(1<<(i+4)) != 0
		}
	}
}

func (a *APU) Save(st *types.State) {
	st.WriteBool(a.enabled)
	st.Write8(a.volumeLeft)
	st.Write8(a.volumeRight)
	st.WriteBool(a.vinLeft)
	st.WriteBool(a.vinRight)
	for i := 0; i < 4; i++ {
		st.WriteBool(a.panLeft[i])
		st.WriteBool(a.panRight[i])
	}
	st.Write8(a.seqStep)
	st.Write32(uint32(a.seqDots))

	a.savePulse(st, &a.ch1)
	a.savePulse(st, &a.ch2)

	st.WriteBool(a.ch3.dacOn)
	st.WriteBool(a.ch3.enabled)
	st.Write16(a.ch3.length)
	st.WriteBool(a.ch3.lengthEnabled)
	st.Write8(a.ch3.volumeShift)
	st.Write16(a.ch3.freq)
	st.Write32(uint32(a.ch3.freqTimer))
	st.Write8(a.ch3.position)
	st.WriteData(a.ch3.ram[:])

	st.WriteBool(a.ch4.dacOn)
	st.WriteBool(a.ch4.enabled)
	st.Write8(a.ch4.length)
	st.WriteBool(a.ch4.lengthEnabled)
	st.Write8(a.ch4.envelopeInitVolume)
	st.WriteBool(a.ch4.envelopeIncrease)
	st.Write8(a.ch4.envelopePeriod)
	st.Write8(a.ch4.envelopeTimer)
	st.Write8(a.ch4.volume)
	st.Write8(a.ch4.shiftAmount)
	st.WriteBool(a.ch4.widthMode7)
	st.Write8(a.ch4.divisorCode)
	st.Write32(uint32(a.ch4.freqTimer))
	st.Write16(a.ch4.lfsr)
}

func (a *APU) savePulse(st *types.State, p *pulseChannel) {
	st.WriteBool(p.dacOn)
	st.WriteBool(p.enabled)
	st.Write8(p.duty)
	st.Write8(p.dutyPos)
	st.Write8(p.length)
	st.WriteBool(p.lengthEnabled)
	st.Write8(p.envelopeInitVolume)
	st.WriteBool(p.envelopeIncrease)
	st.Write8(p.envelopePeriod)
	st.Write8(p.envelopeTimer)
	st.Write8(p.volume)
	st.Write16(p.freq)
	st.Write32(uint32(p.freqTimer))
	st.Write8(p.sweepPeriod)
	st.WriteBool(p.sweepIncrease)
	st.Write8(p.sweepShift)
	st.Write8(p.sweepTimer)
	st.WriteBool(p.sweepEnabled)
	st.Write16(p.shadowFreq)
}

func (a *APU) Load(st *types.State) {
	a.enabled = st.ReadBool()
	a.volumeLeft = st.Read8()
	a.volumeRight = st.Read8()
	a.vinLeft = st.ReadBool()
	a.vinRight = st.ReadBool()
	for i := 0; i < 4; i++ {
		a.panLeft[i] = st.ReadBool()
		a.panRight[i] = st.ReadBool()
	}
	a.seqStep = st.Read8()
	a.seqDots = int(st.Read32())

	a.loadPulse(st, &a.ch1)
	a.loadPulse(st, &a.ch2)

	a.ch3.dacOn = st.ReadBool()
	a.ch3.enabled = st.ReadBool()
	a.ch3.length = st.Read16()
	a.ch3.lengthEnabled = st.ReadBool()
	a.ch3.volumeShift = st.Read8()
	a.ch3.freq = st.Read16()
	a.ch3.freqTimer = int(st.Read32())
	a.ch3.position = st.Read8()
	st.ReadData(a.ch3.ram[:])

	a.ch4.dacOn = st.ReadBool()
	a.ch4.enabled = st.ReadBool()
	a.ch4.length = st.Read8()
	a.ch4.lengthEnabled = st.ReadBool()
	a.ch4.envelopeInitVolume = st.Read8()
	a.ch4.envelopeIncrease = st.ReadBool()
	a.ch4.envelopePeriod = st.Read8()
	a.ch4.envelopeTimer = st.Read8()
	a.ch4.volume = st.Read8()
	a.ch4.shiftAmount = st.Read8()
	a.ch4.widthMode7 = st.ReadBool()
	a.ch4.divisorCode = st.Read8()
	a.ch4.freqTimer = int(st.Read32())
	a.ch4.lfsr = st.Read16()
}

func (a *APU) loadPulse(st *types.State, p *pulseChannel) {
	p.dacOn = st.ReadBool()
	p.enabled = st.ReadBool()
	p.duty = st.Read8()
	p.dutyPos = st.Read8()
	p.length = st.Read8()
	p.lengthEnabled = st.ReadBool()
	p.envelopeInitVolume = st.Read8()
	p.envelopeIncrease = st.ReadBool()
	p.envelopePeriod = st.Read8()
	p.envelopeTimer = st.Read8()
	p.volume = st.Read8()
	p.freq = st.Read16()
	p.freqTimer = int(st.Read32())
	p.sweepPeriod = st.Read8()
	p.sweepIncrease = st.ReadBool()
	p.sweepShift = st.Read8()
	p.sweepTimer = st.Read8()
	p.sweepEnabled = st.ReadBool()
	p.shadowFreq = st.Read16()
}
