// Package decode turns VGM command logs and NSF ROM images into 16-bit
// stereo PCM. The chips run at a fixed 44 100 Hz internal rate; the
// outer decoder resamples to the caller-chosen output rate and applies
// an optional end-of-track fade.
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// The chips always produce samples at this rate; see the per-chip
// counter scalers.
const chipSampleRate = 44100

// DefaultMaxDurationMs caps decoding when the caller does not choose a
// duration.
const DefaultMaxDurationMs = 90000

var ErrBadFormat = errors.New("unrecognized music format")

// source is a decoded music stream feeding one chip.
type source interface {
	// decodeBlock advances the stream and returns the number of chip
	// samples to consume before the next call, 0 when nothing is left,
	// or a negative value on error.
	decodeBlock() int
	sample() uint32
	setVolume(volume uint16)
	trackCount() int
	setTrack(track int) bool
}

// Decoder streams PCM out of an opened VGM or NSF file.
type Decoder struct {
	src source

	sampleRate    uint32
	writeScaler   uint32
	writeCounter  uint32
	samplesPlayed uint32
	waitSamples   int

	heldSample uint32
	held       bool

	maxDuration uint32 // in chip samples; 0 means unbounded
	fade        bool
}

// Open sniffs data and constructs the matching decoder. The byte slice
// is retained for the lifetime of the decoder.
func Open(data []byte) (*Decoder, error) {
	var src source
	switch {
	case len(data) >= 4 && binary.LittleEndian.Uint32(data) == vgmIdent:
		v, err := openVGM(data)
		if err != nil {
			return nil, err
		}
		src = v
	case len(data) >= 5 && string(data[:5]) == nsfIdent:
		n, err := openNSF(data)
		if err != nil {
			return nil, err
		}
		src = n
	default:
		return nil, ErrBadFormat
	}

	d := &Decoder{
		src:  src,
		fade: true,
	}
	d.SetSampleFrequency(chipSampleRate)
	d.SetMaxDuration(DefaultMaxDurationMs)
	return d, nil
}

// SetSampleFrequency selects the output sample rate. Rates at or below
// 44 100 Hz are produced by nearest-neighbor decimation.
func (d *Decoder) SetSampleFrequency(hz uint32) {
	if hz == 0 {
		return
	}
	d.sampleRate = hz
	d.writeScaler = hz
}

// SampleFrequency returns the configured output rate.
func (d *Decoder) SampleFrequency() uint32 {
	return d.sampleRate
}

// SetVolume sets the chip volume in percent, default 100.
func (d *Decoder) SetVolume(volume uint16) {
	d.src.setVolume(volume)
}

// SetMaxDuration bounds total emission to ms milliseconds regardless of
// what the stream contains. 0 removes the bound.
func (d *Decoder) SetMaxDuration(ms uint32) {
	d.maxDuration = uint32(uint64(ms) * chipSampleRate / 1000)
}

// SetFade enables or disables the two-second fade-out before the
// duration cap.
func (d *Decoder) SetFade(enabled bool) {
	d.fade = enabled
}

// TrackCount returns the number of tracks in the opened file: NSF files
// report their song count, everything else is single-track.
func (d *Decoder) TrackCount() int {
	return d.src.trackCount()
}

// SetTrack selects the track to play. An out-of-range index on a
// single-track file is accepted and ignored.
func (d *Decoder) SetTrack(track int) error {
	if !d.src.setTrack(track) {
		return fmt.Errorf("cannot select track %d", track)
	}
	return nil
}

// DecodePcm fills buf with little-endian 16-bit unsigned stereo frames
// and returns the number of bytes written. 0 means end of stream; a
// negative value means the stream failed before producing anything.
func (d *Decoder) DecodePcm(buf []byte) int {
	decoded := 0
	for decoded+4 <= len(buf) {
		if d.maxDuration > 0 && d.samplesPlayed >= d.maxDuration {
			return decoded
		}
		for d.waitSamples == 0 {
			n := d.src.decodeBlock()
			if n < 0 {
				if decoded > 0 {
					return decoded
				}
				return -1
			}
			if n == 0 {
				return decoded
			}
			d.waitSamples = n
		}
		for d.waitSamples > 0 && decoded+4 <= len(buf) {
			d.interpolate(d.src.sample())

			d.writeCounter += d.writeScaler
			d.samplesPlayed++
			d.waitSamples--

			if d.writeCounter >= chipSampleRate {
				sample := d.heldSample
				if d.fade {
					sample = d.applyFade(sample)
				}
				binary.LittleEndian.PutUint32(buf[decoded:], sample)
				decoded += 4
				d.writeCounter -= chipSampleRate
				d.held = false
			}
			if d.maxDuration > 0 && d.samplesPlayed >= d.maxDuration {
				return decoded
			}
		}
	}
	return decoded
}

// interpolate holds the first chip sample of each output period;
// subsequent ones are dropped. Nearest-neighbor, no low-pass.
func (d *Decoder) interpolate(sample uint32) {
	if !d.held {
		d.heldSample = sample
		d.held = true
	}
}

// applyFade linearly attenuates the last two seconds before the
// duration cap. Amplitudes are biased around 0x8000, so the channels
// are re-centered before scaling.
func (d *Decoder) applyFade(sample uint32) uint32 {
	if d.maxDuration == 0 {
		return sample
	}
	remaining := d.maxDuration - d.samplesPlayed
	if remaining >= 2*chipSampleRate {
		return sample
	}
	shifter := int32(remaining >> 7)
	left := (int32(sample&0xFFFF)-0x8000)*shifter/1024 + 0x8000
	right := (int32(sample>>16)-0x8000)*shifter/1024 + 0x8000
	return uint32(uint16(left)) | uint32(uint16(right))<<16
}

// SamplesPlayed reports the number of chip samples consumed so far.
// It never decreases between DecodePcm calls.
func (d *Decoder) SamplesPlayed() uint32 {
	return d.samplesPlayed
}
