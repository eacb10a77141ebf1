// Package ay8910 emulates the AY-3-8910 / YM2149 programmable sound
// generator family: three square tone channels, one shared noise
// generator and one shared envelope generator, mixed per channel by
// register 7. The generator is sample-stepped: every Sample call
// advances all counters by one audio sample's worth of chip ticks.
package ay8910

import (
	"chipdec/emu/log"
)

const defaultClock = 3579545
const defaultSampleRate = 44100

// PSG is a single AY/YM chip instance.
type PSG struct {
	chipType ChipType
	flags    uint8

	// 17-bit noise LFSR, taps at bits 0 and 3. Never zero.
	rng uint32

	frequency       uint32
	sampleFrequency uint32

	// Fixed-point (24.8) chip ticks consumed per output sample, for
	// the /16 tone prescaler and the /256 envelope prescaler.
	toneFrequencyScale uint32
	envFrequencyScale  uint32

	regs [16]uint16

	period      [3]uint32
	periodNoise uint32
	periodE     uint32

	mixer       uint8
	amplitude   [3]uint8
	useEnvelope [3]bool

	counter       [3]uint32
	counterNoise  uint32
	counterEnv    uint32
	channelOutput [3]bool
	noiseHigh     bool

	envelopeReg uint8
	holding     bool
	hold        bool
	attack      bool
	continue_   bool
	alternate   bool
	envStepMask uint8
	envPos      uint8
	envVolume   uint8

	levelTable [32]uint16
	userVolume uint16
}

// New creates a PSG of the given type, running at the default 3.58 MHz
// clock until SetFrequency is called.
func New(chipType ChipType, flags uint8) *PSG {
	p := &PSG{
		frequency:       defaultClock,
		sampleFrequency: defaultSampleRate,
		userVolume:      100,
	}
	p.SetType(chipType, flags)
	p.Reset()
	return p
}

// SetType selects the chip variant. The AY8930 runs the expanded mode:
// 16-bit tone periods and a 32-step envelope.
func (p *PSG) SetType(chipType ChipType, flags uint8) {
	p.chipType = chipType
	p.flags = flags
	p.envStepMask = 0x0F
	if chipType == AY8930 {
		p.envStepMask = 0x1F
	}
}

// Reset reinitializes register state, preserving the user volume and
// the clock rates.
func (p *PSG) Reset() {
	p.rng = 1
	p.regs = [16]uint16{}
	p.period = [3]uint32{}
	p.periodNoise = 0
	p.periodE = 0
	p.mixer = 0
	p.amplitude = [3]uint8{}
	p.useEnvelope = [3]bool{}
	p.counter = [3]uint32{}
	p.counterNoise = 0
	p.counterEnv = 0
	p.channelOutput = [3]bool{}
	p.noiseHigh = false
	p.envelopeReg = 0
	p.holding = true
	p.envPos = 0
	p.envVolume = 0
	p.calcScalers()
	p.calcVolumeTables()
}

// SetFrequency sets the chip master clock in Hz.
func (p *PSG) SetFrequency(frequency uint32) {
	if frequency == 0 {
		return
	}
	p.frequency = frequency
	p.calcScalers()
}

// SetSampleFrequency sets the output sample rate. The emulator is
// designed to run at 44 100 Hz; downsample its output rather than
// lowering this.
func (p *PSG) SetSampleFrequency(sampleFrequency uint32) {
	if sampleFrequency == 0 {
		return
	}
	p.sampleFrequency = sampleFrequency
	p.calcScalers()
}

// SampleFrequency returns the currently set sample rate.
func (p *PSG) SampleFrequency() uint32 {
	return p.sampleFrequency
}

// SetVolume rescales the amplitude table. volume is a percentage,
// default 100.
func (p *PSG) SetVolume(volume uint16) {
	p.userVolume = volume
	p.calcVolumeTables()
}

func (p *PSG) calcScalers() {
	p.toneFrequencyScale = uint32(uint64(p.frequency) << 8 / (16 * uint64(p.sampleFrequency)))
	p.envFrequencyScale = uint32(uint64(p.frequency) << 8 / (256 * uint64(p.sampleFrequency)))
}

func (p *PSG) calcVolumeTables() {
	for i := 0; i < 32; i++ {
		vol := uint32(ampTable[i>>1]) * uint32(p.userVolume) / 100
		if vol > 0xFFFF {
			vol = 0xFFFF
		}
		p.levelTable[i] = uint16(vol)
	}
}

// periodMask is the coarse tone period mask: 4 bits on the classic
// parts, 8 on the AY8930.
func (p *PSG) periodMask() uint16 {
	if p.chipType == AY8930 {
		return 0xFF
	}
	return 0x0F
}

// Write sets the value of a PSG register and applies its side effects.
// Writes to unknown registers are silently discarded.
func (p *PSG) Write(reg uint8, value uint16) {
	if reg > 15 {
		return
	}
	log.ModSound.InfoZ("write psg reg").
		Uint8("reg", reg).
		Hex16("val", value).
		End()
	p.regs[reg] = value

	switch reg {
	case 0, 2, 4:
		ch := int(reg) / 2
		p.period[ch] = (p.period[ch] & ^uint32(0xFF)) | uint32(value&0xFF)
		p.clampCounter(ch)
	case 1, 3, 5:
		ch := int(reg) / 2
		p.period[ch] = (p.period[ch] & 0xFF) | uint32(value&p.periodMask())<<8
		p.clampCounter(ch)
	case 6:
		p.periodNoise = uint32(value & 0x1F)
		if p.counterNoise > p.periodNoise<<8 {
			p.counterNoise = p.periodNoise << 8
		}
	case 7:
		p.mixer = uint8(value)
	case 8, 9, 10:
		ch := int(reg) - 8
		p.amplitude[ch] = uint8(value) & 0x0F
		p.useEnvelope[ch] = value&0x10 != 0
	case 11:
		p.periodE = (p.periodE & ^uint32(0xFF)) | uint32(value&0xFF)
	case 12:
		p.periodE = (p.periodE & 0xFF) | uint32(value&0xFF)<<8
	case 13:
		p.envelopeReg = uint8(value)
		p.hold = value&0x01 != 0
		p.alternate = value&0x02 != 0
		p.attack = value&0x04 != 0
		p.continue_ = value&0x08 != 0
		p.holding = false
		p.envPos = 0
		p.counterEnv = 0
		if p.attack {
			p.envVolume = 0
		} else {
			p.envVolume = p.envStepMask
		}
	case 14, 15:
		// IO ports, value only stored.
	}
}

// Read returns the last value written to reg.
func (p *PSG) Read(reg uint8) uint16 {
	if reg > 15 {
		return 0
	}
	return p.regs[reg]
}

func (p *PSG) clampCounter(ch int) {
	if p.counter[ch] > p.period[ch]<<8 {
		p.counter[ch] = p.period[ch] << 8
	}
}

// Sample advances the generators by one output sample and returns the
// mix of the three channels, packed as (right<<16)|left.
func (p *PSG) Sample() uint32 {
	// Tone generators: the square phase flips each time the counter
	// reaches the period. A zero period counts as one.
	for ch := 0; ch < 3; ch++ {
		per := p.period[ch]
		if per == 0 {
			per = 1
		}
		threshold := per << 8
		p.counter[ch] += p.toneFrequencyScale
		for p.counter[ch] >= threshold {
			p.counter[ch] -= threshold
			p.channelOutput[ch] = !p.channelOutput[ch]
		}
	}

	// Shared noise generator.
	per := p.periodNoise
	if per == 0 {
		per = 1
	}
	threshold := per << 8
	p.counterNoise += p.toneFrequencyScale
	for p.counterNoise >= threshold {
		p.counterNoise -= threshold
		bit := (p.rng ^ p.rng>>3) & 1
		p.rng = p.rng>>1 | bit<<16
		p.noiseHigh = p.rng&1 != 0
	}

	// Shared envelope generator.
	if !p.holding {
		per := p.periodE
		if per == 0 {
			per = 1
		}
		threshold := per << 8
		p.counterEnv += p.envFrequencyScale
		for p.counterEnv >= threshold {
			p.counterEnv -= threshold
			p.stepEnvelope()
		}
	}

	// Mixer: enable bits are active low; a disabled source gates its
	// channel open.
	var sum uint32
	for ch := 0; ch < 3; ch++ {
		toneGate := p.channelOutput[ch] || p.mixer&(1<<ch) != 0
		noiseGate := p.noiseHigh || p.mixer&(8<<ch) != 0
		if !toneGate || !noiseGate {
			continue
		}
		sum += uint32(p.levelTable[p.levelIndex(ch)])
	}
	if sum > 0xFFFF {
		sum = 0xFFFF
	}
	return sum | sum<<16
}

// levelIndex maps a channel's amplitude selection onto the 32-entry
// level table. Fixed 16-step amplitudes land on the odd entries.
func (p *PSG) levelIndex(ch int) uint8 {
	if p.useEnvelope[ch] {
		if p.envStepMask == 0x0F {
			return p.envVolume*2 + 1
		}
		return p.envVolume
	}
	return p.amplitude[ch]*2 + 1
}
