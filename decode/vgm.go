package decode

import (
	"encoding/binary"
	"fmt"

	"chipdec/chip/ay8910"
	"chipdec/chip/nes"
	"chipdec/emu/log"
)

// "Vgm " little-endian.
const vgmIdent = 0x206D6756

// VGM header field offsets. Little-endian throughout.
const (
	vgmOffEOF          = 0x04
	vgmOffVersion      = 0x08
	vgmOffTotalSamples = 0x18
	vgmOffLoopOffset   = 0x1C
	vgmOffLoopSamples  = 0x20
	vgmOffRate         = 0x24
	vgmOffDataOffset   = 0x34
	vgmOffAY8910Clock  = 0x74
	vgmOffAY8910Type   = 0x78
	vgmOffAY8910Flags  = 0x79
	vgmOffLoopBase     = 0x7E
	vgmOffLoopModifier = 0x7F
	vgmOffNESApuClock  = 0x84
)

const vgmMinHeaderSize = 0x40

// VGMHeader carries the header fields this decoder cares about, for
// metadata display.
type VGMHeader struct {
	Version      uint32
	Rate         uint32
	TotalSamples uint32
	LoopOffset   uint32
	LoopSamples  uint32
	AY8910Clock  uint32
	AY8910Type   uint8
	AY8910Flags  uint8
	NESApuClock  uint32
}

// ParseVGMHeader decodes a VGM header for metadata display.
func ParseVGMHeader(data []byte) (VGMHeader, error) {
	var h VGMHeader
	if len(data) < vgmMinHeaderSize {
		return h, fmt.Errorf("%w: truncated vgm header", ErrBadFormat)
	}
	if binary.LittleEndian.Uint32(data) != vgmIdent {
		return h, fmt.Errorf("%w: bad vgm magic", ErrBadFormat)
	}
	if vgmField32(data, vgmOffEOF) != uint32(len(data)-4) {
		return h, fmt.Errorf("%w: bad vgm eof offset", ErrBadFormat)
	}
	h.Version = vgmField32(data, vgmOffVersion)
	h.Rate = vgmField32(data, vgmOffRate)
	h.TotalSamples = vgmField32(data, vgmOffTotalSamples)
	h.LoopOffset = vgmField32(data, vgmOffLoopOffset)
	h.LoopSamples = vgmField32(data, vgmOffLoopSamples)
	h.AY8910Clock = vgmField32(data, vgmOffAY8910Clock)
	h.AY8910Type = vgmField8(data, vgmOffAY8910Type)
	h.AY8910Flags = vgmField8(data, vgmOffAY8910Flags)
	h.NESApuClock = vgmField32(data, vgmOffNESApuClock)
	return h, nil
}

// vgmDecoder walks the VGM command stream, routing AY and NES APU
// register writes to the corresponding chip. All other chips' commands
// are parsed for length and dropped.
type vgmDecoder struct {
	data []byte
	pos  int

	rate        uint32
	dataOffset  int
	loopOffset  int
	loops       uint8
	waitSamples int

	msxChip *ay8910.PSG
	nesChip *nes.System
}

func vgmField32(data []byte, off int) uint32 {
	if off+4 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint32(data[off:])
}

func vgmField8(data []byte, off int) uint8 {
	if off >= len(data) {
		return 0
	}
	return data[off]
}

func openVGM(data []byte) (*vgmDecoder, error) {
	if len(data) < vgmMinHeaderSize {
		return nil, fmt.Errorf("%w: truncated vgm header", ErrBadFormat)
	}
	if binary.LittleEndian.Uint32(data) != vgmIdent {
		return nil, fmt.Errorf("%w: bad vgm magic", ErrBadFormat)
	}
	if vgmField32(data, vgmOffEOF) != uint32(len(data)-4) {
		return nil, fmt.Errorf("%w: bad vgm eof offset", ErrBadFormat)
	}

	d := &vgmDecoder{data: data}

	version := vgmField32(data, vgmOffVersion)
	d.rate = vgmField32(data, vgmOffRate)
	if d.rate == 0 {
		d.rate = 50
	}
	d.dataOffset = 0x40
	if version >= 0x150 {
		if off := vgmField32(data, vgmOffDataOffset); off != 0 {
			d.dataOffset = int(off) + 0x34
		}
	}
	if d.dataOffset >= len(data) {
		return nil, fmt.Errorf("%w: vgm data offset out of range", ErrBadFormat)
	}
	d.pos = d.dataOffset

	if loop := vgmField32(data, vgmOffLoopOffset); loop != 0 {
		d.loopOffset = int(loop) + 0x1C
		d.loops = 2
	} else {
		d.loopOffset = 0
		d.loops = 1
	}

	if clock := vgmField32(data, vgmOffAY8910Clock); clock != 0 {
		chipType := ay8910.ChipType(vgmField8(data, vgmOffAY8910Type))
		flags := vgmField8(data, vgmOffAY8910Flags)
		d.msxChip = ay8910.New(chipType, flags)
		d.msxChip.SetFrequency(clock)
	} else if clock := vgmField32(data, vgmOffNESApuClock); clock != 0 {
		d.nesChip = nes.NewSystem()
	}

	log.ModVGM.InfoZ("vgm open").
		Hex32("version", version).
		Uint32("rate", d.rate).
		Uint32("total samples", vgmField32(data, vgmOffTotalSamples)).
		Uint32("loop samples", vgmField32(data, vgmOffLoopSamples)).
		Uint8("loop base", vgmField8(data, vgmOffLoopBase)).
		Uint8("loop modifier", vgmField8(data, vgmOffLoopModifier)).
		Int("data offset", d.dataOffset).
		Int("loop offset", d.loopOffset).
		End()

	return d, nil
}

// vgmStop signals the clean end of the command stream, vgmFault a
// corrupt one.
type vgmStatus int

const (
	vgmContinue vgmStatus = iota
	vgmStop
	vgmFault
)

// need reports whether n operand bytes follow the command byte.
func (d *vgmDecoder) need(n int) bool {
	if d.pos+1+n > len(d.data) {
		log.ModVGM.ErrorZ("truncated command").
			Hex8("cmd", d.data[d.pos]).
			Int("pos", d.pos).
			End()
		return false
	}
	return true
}

func (d *vgmDecoder) nextCommand() vgmStatus {
	if d.pos >= len(d.data) {
		return vgmStop
	}
	cmd := d.data[d.pos]
	switch {
	case cmd == 0x61: // wait nn nn samples
		if !d.need(2) {
			return vgmStop
		}
		d.waitSamples = int(binary.LittleEndian.Uint16(d.data[d.pos+1:])) + 1
		d.pos += 3

	case cmd == 0x62: // wait 1/60 s
		d.waitSamples = 735
		d.pos++

	case cmd == 0x63: // wait 1/50 s
		d.waitSamples = 882
		d.pos++

	case cmd == 0x66: // end of sound data
		if d.loopOffset != 0 && d.loops != 1 {
			d.pos = d.loopOffset
			if d.loops > 0 {
				d.loops--
			}
			return vgmContinue
		}
		log.ModVGM.InfoZ("end of stream").End()
		return vgmStop

	case cmd == 0x67: // data block: 0x67 0x66 tt ss ss ss ss data
		if !d.need(6) {
			return vgmStop
		}
		blockLen := int(binary.LittleEndian.Uint32(d.data[d.pos+3:]))
		if d.pos+7+blockLen > len(d.data) {
			log.ModVGM.ErrorZ("truncated data block").Int("len", blockLen).End()
			return vgmStop
		}
		if d.nesChip != nil {
			d.nesChip.Cart.SetBlockPrefixed(d.data[d.pos+7 : d.pos+7+blockLen])
		}
		d.pos += 7 + blockLen

	case cmd == 0x68: // PCM RAM write: fixed 12-byte command
		if !d.need(11) {
			return vgmStop
		}
		d.pos += 12

	case cmd == 0xA0: // AY8910 register write
		if !d.need(2) {
			return vgmStop
		}
		if d.msxChip != nil {
			d.msxChip.Write(d.data[d.pos+1], uint16(d.data[d.pos+2]))
		}
		d.pos += 3

	case cmd == 0xB4: // NES APU register write
		if !d.need(2) {
			return vgmStop
		}
		if d.nesChip != nil {
			d.nesChip.APU.Write(0x4000+uint16(d.data[d.pos+1]), d.data[d.pos+2])
		}
		d.pos += 3

	case cmd == 0x4F || cmd == 0x50: // GG stereo, SN76489
		if !d.need(1) {
			return vgmStop
		}
		d.pos += 2

	case cmd >= 0x51 && cmd <= 0x5F: // FM chips
		if !d.need(2) {
			return vgmStop
		}
		d.pos += 3

	case cmd >= 0x70 && cmd <= 0x7F: // short wait
		d.waitSamples = int(cmd&0x0F) + 1
		d.pos++

	case cmd >= 0x80 && cmd <= 0x8F: // YM2612 DAC write + wait
		// Only the wait is modeled.
		d.waitSamples = int(cmd & 0x0F)
		d.pos++

	case cmd >= 0x90 && cmd <= 0x95: // DAC stream control
		d.pos += dacStreamLen[cmd-0x90]
		if d.pos > len(d.data) {
			return vgmStop
		}

	case cmd == 0x30 || cmd == 0x3F: // dual chip prefixes
		if !d.need(1) {
			return vgmStop
		}
		d.pos += 2

	case cmd == 0x31: // AY8910 stereo mask
		if !d.need(1) {
			return vgmStop
		}
		d.pos += 2

	case cmd >= 0x32 && cmd <= 0x3E: // reserved, one operand
		if !d.need(1) {
			return vgmStop
		}
		d.pos += 2

	case cmd >= 0x40 && cmd <= 0x4E: // reserved, two operands
		if !d.need(2) {
			return vgmStop
		}
		d.pos += 3

	case cmd >= 0xB0 && cmd <= 0xBF: // other chips, two operands
		if !d.need(2) {
			return vgmStop
		}
		d.pos += 3

	case cmd >= 0xA1 && cmd <= 0xAF: // dual chip writes
		if !d.need(2) {
			return vgmStop
		}
		d.pos += 3

	case cmd >= 0xC0 && cmd <= 0xC8, cmd >= 0xD0 && cmd <= 0xD6: // three operands
		if !d.need(3) {
			return vgmStop
		}
		d.pos += 4

	case cmd >= 0xC9 && cmd <= 0xCF, cmd >= 0xD7 && cmd <= 0xDF: // reserved
		if !d.need(3) {
			return vgmStop
		}
		d.pos += 4

	case cmd == 0xE0 || cmd == 0xE1: // PCM seek, C352
		if !d.need(4) {
			return vgmStop
		}
		d.pos += 5

	case cmd >= 0xE2: // reserved, four operands
		if !d.need(4) {
			return vgmStop
		}
		d.pos += 5

	default:
		log.ModVGM.ErrorZ("unknown command").
			Hex8("cmd", cmd).
			Int("pos", d.pos).
			End()
		return vgmFault
	}
	return vgmContinue
}

// DAC stream control command lengths including the command byte.
var dacStreamLen = [6]int{5, 5, 6, 11, 2, 5}

func (d *vgmDecoder) decodeBlock() int {
	d.waitSamples = 0
	for d.waitSamples == 0 {
		switch d.nextCommand() {
		case vgmStop:
			return 0
		case vgmFault:
			return -1
		}
	}
	return d.waitSamples
}

// silentSample is the mid-scale level emitted when the file carries no
// chip this decoder emulates.
const silentSample = 0x80008000

func (d *vgmDecoder) sample() uint32 {
	if d.msxChip != nil {
		return d.msxChip.Sample()
	}
	if d.nesChip != nil {
		return d.nesChip.APU.Sample()
	}
	return silentSample
}

func (d *vgmDecoder) setVolume(volume uint16) {
	if d.msxChip != nil {
		d.msxChip.SetVolume(volume)
	}
	if d.nesChip != nil {
		d.nesChip.APU.SetVolume(volume)
	}
}

func (d *vgmDecoder) trackCount() int { return 1 }

// setTrack accepts any index and ignores it; a VGM stream has no track
// structure to seek in.
func (d *vgmDecoder) setTrack(track int) bool { return true }
