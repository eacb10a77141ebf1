// Package player plays a decoded music stream on the default audio
// device through SDL2. When the device cannot run at the decoder's
// 44 100 Hz rate, the stream is resampled with band-limited
// interpolation.
package player

import (
	"context"
	"encoding/binary"

	"github.com/arl/blip"
	"github.com/veandco/go-sdl2/sdl"

	"chipdec/decode"
	"chipdec/emu/log"
)

const decoderRate = 44100

const (
	audioFormat   = sdl.AUDIO_S16LSB
	audioChannels = 2
	audioSamples  = 2048

	// Pause decoding when this much audio is already queued.
	maxQueued = 256 * 1024
)

type player struct {
	dev  sdl.AudioDeviceID
	have sdl.AudioSpec

	bufleft   *blip.Buffer
	bufright  *blip.Buffer
	prevleft  int32
	prevright int32

	out []int16
}

// Play decodes dec to the default audio device until the stream ends or
// ctx is canceled. The stop signal is threaded through ctx explicitly;
// there is no process-wide playback state.
func Play(ctx context.Context, dec *decode.Decoder) error {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return err
	}
	defer sdl.Quit()

	want := sdl.AudioSpec{
		Freq:     decoderRate,
		Format:   audioFormat,
		Channels: audioChannels,
		Samples:  audioSamples,
	}
	p := &player{}
	dev, err := sdl.OpenAudioDevice("", false, &want, &p.have, sdl.AUDIO_ALLOW_FREQUENCY_CHANGE)
	if err != nil {
		return err
	}
	p.dev = dev
	defer sdl.CloseAudioDevice(dev)

	if p.have.Freq != decoderRate {
		log.ModDecoder.Infof("device runs at %d Hz, resampling", p.have.Freq)
		p.bufleft = blip.NewBuffer(int(p.have.Freq))
		p.bufright = blip.NewBuffer(int(p.have.Freq))
		p.bufleft.SetRates(decoderRate, float64(p.have.Freq))
		p.bufright.SetRates(decoderRate, float64(p.have.Freq))
	}

	sdl.PauseAudioDevice(dev, false)

	buf := make([]byte, 16*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n := dec.DecodePcm(buf)
		if n <= 0 {
			break
		}
		if err := p.queue(buf[:n]); err != nil {
			return err
		}

		for sdl.GetQueuedAudioSize(dev) > maxQueued {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				sdl.Delay(10)
			}
		}
	}

	// Let the queue drain before closing the device.
	for sdl.GetQueuedAudioSize(p.dev) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			sdl.Delay(10)
		}
	}
	return nil
}

// queue converts one decoded block from biased-unsigned to signed
// samples and hands it to SDL, resampling if the device rate differs.
func (p *player) queue(pcm []byte) error {
	for i := 0; i+2 <= len(pcm); i += 2 {
		v := binary.LittleEndian.Uint16(pcm[i:])
		binary.LittleEndian.PutUint16(pcm[i:], v-0x8000)
	}
	if p.bufleft == nil {
		return sdl.QueueAudio(p.dev, pcm)
	}
	return p.resampleQueue(pcm)
}

func (p *player) resampleQueue(pcm []byte) error {
	nframes := len(pcm) / 4
	for i := 0; i < nframes; i++ {
		left := int32(int16(binary.LittleEndian.Uint16(pcm[i*4:])))
		right := int32(int16(binary.LittleEndian.Uint16(pcm[i*4+2:])))
		if delta := left - p.prevleft; delta != 0 {
			p.bufleft.AddDelta(uint64(i), delta)
			p.prevleft = left
		}
		if delta := right - p.prevright; delta != 0 {
			p.bufright.AddDelta(uint64(i), delta)
			p.prevright = right
		}
	}
	p.bufleft.EndFrame(nframes)
	p.bufright.EndFrame(nframes)

	avail := p.bufleft.SamplesAvailable()
	if cap(p.out) < avail*2 {
		p.out = make([]int16, avail*2)
	}
	out := p.out[:avail*2]
	n := p.bufleft.ReadSamples(out, avail, blip.Stereo)
	p.bufright.ReadSamples(out[1:], n, blip.Stereo)

	raw := make([]byte, n*2*2)
	for i, s := range out[:n*2] {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	return sdl.QueueAudio(p.dev, raw)
}
