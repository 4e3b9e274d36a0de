package apu

// dutyTable holds the 8-step waveform for each of the four duty
// cycles pulse channels can select (12.5%, 25%, 50%, 75%).
var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 0},
}

// pulseChannel implements channels 1 and 2: a duty-cycle square wave
// with length counter and volume envelope; channel 1 additionally has
// the frequency sweep unit (hasSweep).
type pulseChannel struct {
	hasSweep bool

	dacOn   bool
	enabled bool

	duty    uint8
	dutyPos uint8

	length        uint8
	lengthEnabled bool

	envelopeInitVolume uint8
	envelopeIncrease   bool
	envelopePeriod     uint8
	envelopeTimer      uint8
	volume            uint8

	freq      uint16
	freqTimer int

	sweepPeriod    uint8
	sweepIncrease  bool
	sweepShift     uint8
	sweepTimer     uint8
	sweepEnabled   bool
	shadowFreq     uint16
}

func (p *pulseChannel) writeNRx1(v uint8) {
	p.duty = v >> 6
	p.length = 64 - (v & 0x3F)
}

func (p *pulseChannel) writeNRx2(v uint8) {
	p.envelopeInitVolume = v >> 4
	p.envelopeIncrease = v&0x08 != 0
	p.envelopePeriod = v & 0x07
	p.dacOn = v&0xF8 != 0
	if !p.dacOn {
		p.enabled = false
	}
}

func (p *pulseChannel) writeNRx3(v uint8) {
	p.freq = p.freq&0x700 | uint16(v)
}

func (p *pulseChannel) writeNRx4(v uint8) {
	p.freq = p.freq&0xFF | uint16(v&0x07)<<8
	p.lengthEnabled = v&0x40 != 0
	if v&0x80 != 0 {
		p.trigger()
	}
}

func (p *pulseChannel) writeSweep(v uint8) {
	p.sweepPeriod = (v >> 4) & 0x07
	p.sweepIncrease = v&0x08 == 0
	p.sweepShift = v & 0x07
}

func (p *pulseChannel) trigger() {
	p.enabled = p.dacOn
	p.freqTimer = (2048 - int(p.freq)) * 4
	p.envelopeTimer = p.envelopePeriod
	p.volume = p.envelopeInitVolume
	if p.length == 0 {
		p.length = 64
	}
	if p.hasSweep {
		p.shadowFreq = p.freq
		p.sweepTimer = p.sweepPeriod
		if p.sweepTimer == 0 {
			p.sweepTimer = 8
		}
		p.sweepEnabled = p.sweepPeriod != 0 || p.sweepShift != 0
		if p.sweepShift != 0 {
			p.sweepCalc()
		}
	}
}

func (p *pulseChannel) sweepCalc() uint16 {
	delta := p.shadowFreq >> p.sweepShift
	var newFreq uint16
	if p.sweepIncrease {
		newFreq = p.shadowFreq + delta
	} else {
		newFreq = p.shadowFreq - delta
	}
	if newFreq > 2047 {
		p.enabled = false
	}
	return newFreq
}

func (p *pulseChannel) tickSweep() {
	if !p.hasSweep || p.sweepTimer == 0 {
		return
	}
	p.sweepTimer--
	if p.sweepTimer > 0 {
		return
	}
	p.sweepTimer = p.sweepPeriod
	if p.sweepTimer == 0 {
		p.sweepTimer = 8
	}
	if !p.sweepEnabled || p.sweepPeriod == 0 {
		return
	}
	newFreq := p.sweepCalc()
	if newFreq <= 2047 && p.sweepShift != 0 {
		p.shadowFreq = newFreq
		p.freq = newFreq
		p.sweepCalc() // overflow re-check per hardware quirk
	}
}

func (p *pulseChannel) tickLength() {
	if p.lengthEnabled && p.length > 0 {
		p.length--
		if p.length == 0 {
			p.enabled = false
		}
	}
}

func (p *pulseChannel) tickEnvelope() {
	if p.envelopePeriod == 0 {
		return
	}
	if p.envelopeTimer > 0 {
		p.envelopeTimer--
	}
	if p.envelopeTimer == 0 {
		p.envelopeTimer = p.envelopePeriod
		if p.envelopeIncrease && p.volume < 15 {
			p.volume++
		} else if !p.envelopeIncrease && p.volume > 0 {
			p.volume--
		}
	}
}

func (p *pulseChannel) tick(dots uint8) {
	p.freqTimer -= int(dots)
	for p.freqTimer <= 0 {
		p.freqTimer += (2048 - int(p.freq)) * 4
		p.dutyPos = (p.dutyPos + 1) % 8
	}
}

func (p *pulseChannel) sample() int8 {
	if !p.enabled || !p.dacOn {
		return 0
	}
	if dutyTable[p.duty][p.dutyPos] == 0 {
		return 0
	}
	return int8(p.volume)
}
