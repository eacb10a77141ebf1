// Package wav writes the decoder's unsigned 16-bit stereo PCM stream
// into a RIFF/WAVE container, converting to the signed representation
// the format expects.
package wav

import (
	"encoding/binary"
	"io"
)

const headerSize = 44

// Writer streams PCM frames into w and patches the RIFF sizes on
// Finish. w must support seeking back to the header (os.File does).
type Writer struct {
	w          io.WriteSeeker
	sampleRate uint32
	written    uint32
}

// NewWriter writes a provisional header and returns a Writer emitting
// 2-channel 16-bit PCM at the given rate.
func NewWriter(w io.WriteSeeker, sampleRate uint32) (*Writer, error) {
	ww := &Writer{w: w, sampleRate: sampleRate}
	if err := ww.writeHeader(); err != nil {
		return nil, err
	}
	return ww, nil
}

func (ww *Writer) writeHeader() error {
	var hdr [headerSize]byte
	le := binary.LittleEndian

	copy(hdr[0:], "RIFF")
	le.PutUint32(hdr[4:], 36+ww.written)
	copy(hdr[8:], "WAVE")

	copy(hdr[12:], "fmt ")
	le.PutUint32(hdr[16:], 16)
	le.PutUint16(hdr[20:], 1) // PCM
	le.PutUint16(hdr[22:], 2) // stereo
	le.PutUint32(hdr[24:], ww.sampleRate)
	le.PutUint32(hdr[28:], ww.sampleRate*2*2)
	le.PutUint16(hdr[32:], 2*2)
	le.PutUint16(hdr[34:], 16)

	copy(hdr[36:], "data")
	le.PutUint32(hdr[40:], ww.written)

	_, err := ww.w.Write(hdr[:])
	return err
}

// WritePcm converts buf in place from unsigned to signed 16-bit PCM and
// appends it to the data chunk. len(buf) must be a multiple of 2.
func (ww *Writer) WritePcm(buf []byte) error {
	for i := 0; i+2 <= len(buf); i += 2 {
		v := binary.LittleEndian.Uint16(buf[i:])
		binary.LittleEndian.PutUint16(buf[i:], v-0x8000)
	}
	n, err := ww.w.Write(buf)
	ww.written += uint32(n)
	return err
}

// Finish rewrites the header with the final chunk sizes.
func (ww *Writer) Finish() error {
	if _, err := ww.w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return ww.writeHeader()
}
