package decode

import (
	"encoding/binary"
	"fmt"
	"strings"

	"chipdec/chip/nes"
	"chipdec/emu/log"
)

const nsfIdent = "NESM\x1A"

const nsfHeaderSize = 0x80

// playBudget bounds one PLAY call so a driver stuck in a loop returns
// control to the decoder.
const playBudget = 20000

// NSFHeader is the decoded 128-byte NSF header.
type NSFHeader struct {
	Version     uint8
	SongCount   int
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Name        string
	Artist      string
	Copyright   string
	NTSCSpeed   uint16 // microseconds per PLAY tick
	PALSpeed    uint16
	BankSwitch  [8]uint8
	PAL         bool
	DualClock   bool
	ExtraChips  uint8
}

func nsfString(raw []byte) string {
	if i := strings.IndexByte(string(raw), 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

func parseNSFHeader(data []byte) (NSFHeader, error) {
	var h NSFHeader
	if len(data) < nsfHeaderSize {
		return h, fmt.Errorf("%w: truncated nsf header", ErrBadFormat)
	}
	if string(data[:5]) != nsfIdent {
		return h, fmt.Errorf("%w: bad nsf magic", ErrBadFormat)
	}
	h.Version = data[0x05]
	h.SongCount = int(data[0x06])
	h.LoadAddress = binary.LittleEndian.Uint16(data[0x08:])
	h.InitAddress = binary.LittleEndian.Uint16(data[0x0A:])
	h.PlayAddress = binary.LittleEndian.Uint16(data[0x0C:])
	h.Name = nsfString(data[0x0E:0x2E])
	h.Artist = nsfString(data[0x2E:0x4E])
	h.Copyright = nsfString(data[0x4E:0x6E])
	h.NTSCSpeed = binary.LittleEndian.Uint16(data[0x6E:])
	copy(h.BankSwitch[:], data[0x70:0x78])
	h.PALSpeed = binary.LittleEndian.Uint16(data[0x78:])
	h.PAL = data[0x7A]&0x01 != 0
	h.DualClock = data[0x7A]&0x02 != 0
	h.ExtraChips = data[0x7B]
	return h, nil
}

// ParseNSFHeader decodes an NSF header for metadata display.
func ParseNSFHeader(data []byte) (NSFHeader, error) {
	return parseNSFHeader(data)
}

// nsfDecoder drives NSF playback: its decodeBlock runs one PLAY tick on
// the 6502, and the waits between ticks come from the header's play
// speed rather than from the stream.
type nsfDecoder struct {
	hdr NSFHeader
	sys *nes.System

	waitSamples int
}

func openNSF(data []byte) (*nsfDecoder, error) {
	hdr, err := parseNSFHeader(data)
	if err != nil {
		return nil, err
	}

	d := &nsfDecoder{hdr: hdr, sys: nes.NewSystem()}
	d.sys.Cart.SetBlock(uint32(hdr.LoadAddress), data[nsfHeaderSize:])
	if !d.setTrack(0) {
		return nil, fmt.Errorf("nsf init subroutine failed")
	}

	log.ModNSF.InfoZ("nsf open").
		String("name", hdr.Name).
		String("artist", hdr.Artist).
		Int("songs", hdr.SongCount).
		Hex16("load", hdr.LoadAddress).
		Hex16("init", hdr.InitAddress).
		Hex16("play", hdr.PlayAddress).
		Uint16("ntsc speed", hdr.NTSCSpeed).
		End()

	return d, nil
}

// setTrack resets the machine and runs the INIT subroutine for the
// given track. An out-of-range track silently selects track 0.
func (d *nsfDecoder) setTrack(track int) bool {
	d.sys.Reset()

	useBanks := false
	for _, b := range d.hdr.BankSwitch {
		if b != 0 {
			useBanks = true
		}
	}
	if useBanks {
		for i, b := range d.hdr.BankSwitch {
			d.sys.Write8(0x5FF8+uint16(i), b)
		}
	}

	// Zero RAM and the APU register file, then bring the tone channels
	// up in 4-step mode with IRQs off, the state INIT expects.
	for addr := uint16(0); addr <= 0x07FF; addr++ {
		d.sys.Write8(addr, 0)
	}
	for addr := uint16(0x4000); addr <= 0x4013; addr++ {
		d.sys.Write8(addr, 0)
	}
	d.sys.Write8(0x4015, 0x00)
	d.sys.Write8(0x4015, 0x0F)
	d.sys.Write8(0x4017, 0x40)

	cpu := d.sys.CPU
	cpu.X = 0 // NTSC
	cpu.A = 0
	if track < d.hdr.SongCount {
		cpu.A = uint8(track)
	}
	cpu.SP = 0xEF

	if cpu.Call(d.hdr.InitAddress, -1) < 0 {
		log.ModNSF.ErrorZ("init subroutine failed").
			Hex16("init", d.hdr.InitAddress).
			End()
		return false
	}
	return true
}

func (d *nsfDecoder) decodeBlock() int {
	switch r := d.sys.CPU.Call(d.hdr.PlayAddress, playBudget); {
	case r < 0:
		log.ModNSF.ErrorZ("play subroutine failed, stopping").End()
		return -1
	case r == 0:
		log.ModNSF.ErrorZ("play subroutine exceeded instruction budget, stopping").End()
		return 0
	}

	d.waitSamples = int(uint64(chipSampleRate) * uint64(d.hdr.NTSCSpeed) / 1000000)
	if d.waitSamples == 0 {
		// A zero play speed would stall the decoder; fall back to the
		// NTSC frame rate.
		d.waitSamples = 735
	}
	return d.waitSamples
}

func (d *nsfDecoder) sample() uint32 {
	return d.sys.APU.Sample()
}

func (d *nsfDecoder) setVolume(volume uint16) {
	d.sys.APU.SetVolume(volume)
}

func (d *nsfDecoder) trackCount() int {
	return d.hdr.SongCount
}
