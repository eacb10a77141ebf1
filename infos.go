package main

import (
	"fmt"
	"os"

	"github.com/go-faster/jx"

	"chipdec/decode"
)

func runInfos(cmd *Infos) error {
	data, err := os.ReadFile(cmd.Input)
	if err != nil {
		return err
	}

	if nsf, err := decode.ParseNSFHeader(data); err == nil {
		if cmd.JSON {
			return printNSFJSON(nsf)
		}
		printNSF(nsf)
		return nil
	}
	if vgm, err := decode.ParseVGMHeader(data); err == nil {
		if cmd.JSON {
			return printVGMJSON(vgm)
		}
		printVGM(vgm)
		return nil
	}
	return decode.ErrBadFormat
}

func printNSF(h decode.NSFHeader) {
	fmt.Printf("format:    NSF v%d\n", h.Version)
	fmt.Printf("name:      %s\n", h.Name)
	fmt.Printf("artist:    %s\n", h.Artist)
	fmt.Printf("copyright: %s\n", h.Copyright)
	fmt.Printf("tracks:    %d\n", h.SongCount)
	fmt.Printf("load:      $%04X\n", h.LoadAddress)
	fmt.Printf("init:      $%04X\n", h.InitAddress)
	fmt.Printf("play:      $%04X\n", h.PlayAddress)
	fmt.Printf("ntsc tick: %d us\n", h.NTSCSpeed)
	if h.PAL {
		fmt.Printf("pal tick:  %d us\n", h.PALSpeed)
	}
}

func printNSFJSON(h decode.NSFHeader) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("format")
	e.Str("nsf")
	e.FieldStart("version")
	e.Int(int(h.Version))
	e.FieldStart("name")
	e.Str(h.Name)
	e.FieldStart("artist")
	e.Str(h.Artist)
	e.FieldStart("copyright")
	e.Str(h.Copyright)
	e.FieldStart("tracks")
	e.Int(h.SongCount)
	e.FieldStart("load_address")
	e.Int(int(h.LoadAddress))
	e.FieldStart("init_address")
	e.Int(int(h.InitAddress))
	e.FieldStart("play_address")
	e.Int(int(h.PlayAddress))
	e.FieldStart("ntsc_play_speed_us")
	e.Int(int(h.NTSCSpeed))
	e.FieldStart("pal")
	e.Bool(h.PAL)
	e.ObjEnd()
	_, err := fmt.Println(e.String())
	return err
}

func printVGM(h decode.VGMHeader) {
	fmt.Printf("format:        VGM %X.%02X\n", h.Version>>8, h.Version&0xFF)
	fmt.Printf("rate:          %d\n", h.Rate)
	fmt.Printf("total samples: %d\n", h.TotalSamples)
	fmt.Printf("loop samples:  %d\n", h.LoopSamples)
	if h.AY8910Clock != 0 {
		fmt.Printf("ay8910 clock:  %d Hz (type 0x%02X)\n", h.AY8910Clock, h.AY8910Type)
	}
	if h.NESApuClock != 0 {
		fmt.Printf("nes apu clock: %d Hz\n", h.NESApuClock)
	}
}

func printVGMJSON(h decode.VGMHeader) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("format")
	e.Str("vgm")
	e.FieldStart("version")
	e.UInt64(uint64(h.Version))
	e.FieldStart("rate")
	e.UInt64(uint64(h.Rate))
	e.FieldStart("total_samples")
	e.UInt64(uint64(h.TotalSamples))
	e.FieldStart("loop_offset")
	e.UInt64(uint64(h.LoopOffset))
	e.FieldStart("loop_samples")
	e.UInt64(uint64(h.LoopSamples))
	e.FieldStart("ay8910_clock")
	e.UInt64(uint64(h.AY8910Clock))
	e.FieldStart("nes_apu_clock")
	e.UInt64(uint64(h.NESApuClock))
	e.ObjEnd()
	_, err := fmt.Println(e.String())
	return err
}
