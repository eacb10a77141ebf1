package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"chipdec/decode"
	"chipdec/wav"
)

func runConvert(cmd *Convert) error {
	data, err := os.ReadFile(cmd.Input)
	if err != nil {
		return err
	}

	if cmd.AllTracks {
		return convertAllTracks(cmd, data)
	}

	dec, err := decode.Open(data)
	if err != nil {
		return err
	}
	if cmd.Track >= dec.TrackCount() {
		return fmt.Errorf("source file has only %d tracks", dec.TrackCount())
	}
	return convertTrack(cmd, dec, cmd.Track, cmd.Output)
}

// convertAllTracks exports one WAV per track, decoding tracks
// concurrently. Each worker opens its own decoder over the shared
// read-only file data.
func convertAllTracks(cmd *Convert, data []byte) error {
	dec, err := decode.Open(data)
	if err != nil {
		return err
	}
	ntracks := dec.TrackCount()

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for track := 0; track < ntracks; track++ {
		g.Go(func() error {
			d, err := decode.Open(data)
			if err != nil {
				return err
			}
			return convertTrack(cmd, d, track, trackFilename(cmd.Output, track))
		})
	}
	return g.Wait()
}

func trackFilename(output string, track int) string {
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s-%02d%s", strings.TrimSuffix(output, ext), track, ext)
}

func convertTrack(cmd *Convert, dec *decode.Decoder, track int, output string) error {
	dec.SetVolume(cmd.Volume)
	dec.SetSampleFrequency(cmd.Rate)
	dec.SetMaxDuration(cmd.Duration)
	dec.SetFade(!cmd.NoFade)
	if err := dec.SetTrack(track); err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	ww, err := wav.NewWriter(f, cmd.Rate)
	if err != nil {
		return err
	}

	buf := make([]byte, 16*1024)
	for {
		n := dec.DecodePcm(buf)
		if n < 0 {
			return fmt.Errorf("stream error in %s", cmd.Input)
		}
		if n == 0 {
			break
		}
		if err := ww.WritePcm(buf[:n]); err != nil {
			return err
		}
	}
	if err := ww.Finish(); err != nil {
		return err
	}
	return f.Close()
}
