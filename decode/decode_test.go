package decode

import (
	"encoding/binary"
	"testing"
)

func waitCommands(samples int) []byte {
	var out []byte
	for samples > 0 {
		n := samples
		if n > 65536 {
			n = 65536
		}
		out = append(out, 0x61, byte(n-1), byte((n-1)>>8))
		samples -= n
	}
	return out
}

func TestDownsample(t *testing.T) {
	commands := append(waitCommands(4410), 0x66)
	d, err := Open(buildVGM(t, nil, commands))
	if err != nil {
		t.Fatal(err)
	}
	d.SetSampleFrequency(22050)

	buf := make([]byte, 64*1024)
	total := 0
	for {
		n := d.DecodePcm(buf[total:])
		if n <= 0 {
			break
		}
		total += n
	}
	if total != 2205*4 {
		t.Errorf("decoded %d bytes at 22050 Hz, want %d", total, 2205*4)
	}
}

func TestMaxDurationCaps(t *testing.T) {
	commands := append(waitCommands(44100), 0x66)
	d, err := Open(buildVGM(t, nil, commands))
	if err != nil {
		t.Fatal(err)
	}
	d.SetMaxDuration(100) // 100 ms = 4410 samples

	buf := make([]byte, 64*1024)
	total := 0
	for {
		n := d.DecodePcm(buf[total:])
		if n <= 0 {
			break
		}
		total += n
	}
	if total != 4410*4 {
		t.Errorf("decoded %d bytes, want %d (duration-capped)", total, 4410*4)
	}
}

func TestSamplesPlayedMonotonic(t *testing.T) {
	commands := append(waitCommands(8000), 0x66)
	d, err := Open(buildVGM(t, nil, commands))
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 1024)
	prev := d.SamplesPlayed()
	for {
		n := d.DecodePcm(buf)
		if n <= 0 {
			break
		}
		if got := d.SamplesPlayed(); got < prev {
			t.Fatalf("SamplesPlayed went backwards: %d -> %d", prev, got)
		} else {
			prev = got
		}
	}
}

func magnitude(buf []byte) float64 {
	var sum float64
	n := 0
	for i := 0; i+4 <= len(buf); i += 4 {
		s := int(binary.LittleEndian.Uint16(buf[i:]))
		d := s - 0x8000
		if d < 0 {
			d = -d
		}
		sum += float64(d)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func TestFade(t *testing.T) {
	commands := []byte{
		0xA0, 0x07, 0x3E,
		0xA0, 0x00, 0x40,
		0xA0, 0x08, 0x0F,
	}
	commands = append(commands, waitCommands(3*44100)...)
	commands = append(commands, 0x66)

	d, err := Open(buildVGM(t, withAY(2000000), commands))
	if err != nil {
		t.Fatal(err)
	}
	d.SetMaxDuration(2000)
	d.SetFade(true)

	out := make([]byte, 2*44100*4)
	total := 0
	for total < len(out) {
		n := d.DecodePcm(out[total:])
		if n <= 0 {
			break
		}
		total += n
	}
	out = out[:total]

	head := magnitude(out[100*4 : 4500*4])
	tail := magnitude(out[len(out)-1100*4:])
	if head == 0 {
		t.Fatal("no signal at the start of the fade window")
	}
	if tail > head*0.02 {
		t.Errorf("tail magnitude %.1f, want < 2%% of head %.1f", tail, head)
	}
}

func TestFadeDisabled(t *testing.T) {
	commands := []byte{
		0xA0, 0x07, 0x3E,
		0xA0, 0x00, 0x40,
		0xA0, 0x08, 0x0F,
	}
	commands = append(commands, waitCommands(3*44100)...)
	commands = append(commands, 0x66)

	d, err := Open(buildVGM(t, withAY(2000000), commands))
	if err != nil {
		t.Fatal(err)
	}
	d.SetMaxDuration(2000)
	d.SetFade(false)

	out := make([]byte, 2*44100*4)
	total := 0
	for total < len(out) {
		n := d.DecodePcm(out[total:])
		if n <= 0 {
			break
		}
		total += n
	}
	out = out[:total]

	head := magnitude(out[100*4 : 4500*4])
	tail := magnitude(out[len(out)-2200*4:])
	if tail < head*0.5 {
		t.Errorf("tail magnitude %.1f collapsed without fade (head %.1f)", tail, head)
	}
}
