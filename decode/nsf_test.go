package decode

import (
	"encoding/binary"
	"testing"
)

// buildNSF assembles a one-track NSF whose code is loaded at 0x8000.
func buildNSF(t *testing.T, init, play []byte, mod func(hdr []byte)) []byte {
	t.Helper()
	hdr := make([]byte, nsfHeaderSize)
	copy(hdr, nsfIdent)
	hdr[0x05] = 1 // version
	hdr[0x06] = 1 // one song
	binary.LittleEndian.PutUint16(hdr[0x08:], 0x8000)
	binary.LittleEndian.PutUint16(hdr[0x0A:], 0x8000)
	binary.LittleEndian.PutUint16(hdr[0x0C:], uint16(0x8000+len(init)))
	copy(hdr[0x0E:], "test tune")
	binary.LittleEndian.PutUint16(hdr[0x6E:], 16666) // ~60 Hz
	if mod != nil {
		mod(hdr)
	}
	body := make([]byte, 0, len(init)+len(play))
	body = append(body, init...)
	body = append(body, play...)
	return append(hdr, body...)
}

// pulseInit programs pulse 1 for a steady ~866 Hz tone:
//
//	LDA #$01 / STA $4015
//	LDA #$80 / STA $4002
//	LDA #$00 / STA $4003
//	LDA #$3F / STA $4000
//	RTS
var pulseInit = []byte{
	0xA9, 0x01, 0x8D, 0x15, 0x40,
	0xA9, 0x80, 0x8D, 0x02, 0x40,
	0xA9, 0x00, 0x8D, 0x03, 0x40,
	0xA9, 0x3F, 0x8D, 0x00, 0x40,
	0x60,
}

var rtsOnly = []byte{0x60}

func TestNSFPulseTone(t *testing.T) {
	d, err := Open(buildNSF(t, pulseInit, rtsOnly, nil))
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, chipSampleRate*4) // one second
	total := 0
	for total < len(buf) {
		n := d.DecodePcm(buf[total:])
		if n <= 0 {
			break
		}
		total += n
	}
	if total < len(buf)/2 {
		t.Fatalf("decoded only %d bytes", total)
	}

	edges := 0
	var prev uint16
	for i := 0; i+4 <= total; i += 4 {
		s := binary.LittleEndian.Uint16(buf[i:])
		if prev == 0 && s > 0 {
			edges++
		}
		prev = s
	}
	// 1789773 / (16 * 0x81) = ~866 Hz.
	want := 866 * total / len(buf)
	if edges < want-80 || edges > want+80 {
		t.Errorf("edges = %d, want ~%d", edges, want)
	}
}

func TestNSFRejectsBadMagic(t *testing.T) {
	data := buildNSF(t, pulseInit, rtsOnly, nil)
	data[0] = 'X'
	if _, err := Open(data); err == nil {
		t.Fatal("Open should reject a bad NSF magic")
	}
}

func TestNSFInitFaultFailsOpen(t *testing.T) {
	// INIT lands on an undefined opcode.
	if _, err := Open(buildNSF(t, []byte{0x02}, rtsOnly, nil)); err == nil {
		t.Fatal("Open should fail when INIT faults")
	}
}

func TestNSFPlayFaultStopsStream(t *testing.T) {
	d, err := Open(buildNSF(t, rtsOnly, []byte{0x02}, nil))
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4096)
	if n := d.DecodePcm(buf); n != -1 {
		t.Errorf("DecodePcm = %d, want -1 when PLAY faults", n)
	}
}

func TestNSFPlayBudget(t *testing.T) {
	// PLAY spins forever: JMP self at 0x8001.
	play := []byte{0x4C, 0x01, 0x80}
	d, err := Open(buildNSF(t, rtsOnly, play, nil))
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4096)
	if n := d.DecodePcm(buf); n != 0 {
		t.Errorf("DecodePcm = %d, want 0 when PLAY exhausts its budget", n)
	}
}

func TestNSFOutOfRangeTrackSelectsZero(t *testing.T) {
	d, err := Open(buildNSF(t, pulseInit, rtsOnly, nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetTrack(5); err != nil {
		t.Fatalf("SetTrack(5) = %v, want silent fallback to track 0", err)
	}
}

func TestNSFTrackCount(t *testing.T) {
	d, err := Open(buildNSF(t, pulseInit, rtsOnly, func(hdr []byte) {
		hdr[0x06] = 12
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got := d.TrackCount(); got != 12 {
		t.Errorf("TrackCount = %d, want 12", got)
	}
}

func TestNSFBankSwitchInit(t *testing.T) {
	// A 32 KiB bank-switched payload: INIT at the start of bank 0.
	body := make([]byte, 32*1024)
	copy(body, rtsOnly)
	for i := 0x1000; i < len(body); i += 0x1000 {
		body[i] = byte(i >> 12)
	}
	hdr := make([]byte, nsfHeaderSize)
	copy(hdr, nsfIdent)
	hdr[0x05] = 1
	hdr[0x06] = 1
	binary.LittleEndian.PutUint16(hdr[0x08:], 0x8000)
	binary.LittleEndian.PutUint16(hdr[0x0A:], 0x8000)
	binary.LittleEndian.PutUint16(hdr[0x0C:], 0x8000)
	binary.LittleEndian.PutUint16(hdr[0x6E:], 16666)
	for i := 0; i < 8; i++ {
		hdr[0x70+i] = byte(i)
	}

	d, err := openNSF(append(hdr, body...))
	if err != nil {
		t.Fatal(err)
	}

	// The header bank setup wrote 0..7, so the identity mapping holds;
	// redirect window 0 to page 5 and check the read path.
	d.sys.Write8(0x5FF8, 5)
	if got := d.sys.Read8(0x8000); got != 5 {
		t.Errorf("read 8000 = %d, want 5 after bank switch", got)
	}
}

func TestParseNSFHeaderMetadata(t *testing.T) {
	data := buildNSF(t, pulseInit, rtsOnly, func(hdr []byte) {
		copy(hdr[0x2E:], "an artist")
		hdr[0x7A] = 0x01 // PAL
	})
	h, err := ParseNSFHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if h.Name != "test tune" {
		t.Errorf("Name = %q", h.Name)
	}
	if h.Artist != "an artist" {
		t.Errorf("Artist = %q", h.Artist)
	}
	if !h.PAL {
		t.Error("PAL flag not decoded")
	}
}
