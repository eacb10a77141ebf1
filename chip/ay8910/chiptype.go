package ay8910

//go:generate stringer -type=ChipType

// ChipType selects the emulated AY/YM variant, using the VGM header
// encoding.
type ChipType uint8

const (
	AY8910 ChipType = 0x00
	AY8912 ChipType = 0x01
	AY8913 ChipType = 0x02
	AY8930 ChipType = 0x03
	AY8914 ChipType = 0x04

	YM2149 ChipType = 0x10
	YM3439 ChipType = 0x11
	YMZ284 ChipType = 0x12
	YMZ294 ChipType = 0x13

	YM2203  ChipType = 0x20
	YM2608  ChipType = 0x21
	YM2610  ChipType = 0x22
	YM2610B ChipType = 0x23
)
