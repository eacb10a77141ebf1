package apu

// The canonical NES length counter lookup table, indexed by the upper
// five bits of the length registers.
var lengthLut = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22,
	192, 24, 72, 26, 16, 28, 32, 30,
}

// Noise timer periods in APU cycles (half the CPU clock), NTSC.
var noiseLut = [16]uint16{
	0x002, 0x004, 0x008, 0x010,
	0x020, 0x030, 0x040, 0x050,
	0x065, 0x07F, 0x0BE, 0x0FE,
	0x17D, 0x1FC, 0x3F9, 0x7F2,
}

// DMC timer periods in CPU cycles, NTSC.
var dmcLut = [16]uint16{
	0x1AC, 0x17C, 0x154, 0x140,
	0x11E, 0x0FE, 0x0E2, 0x0D6,
	0x0BE, 0x0A0, 0x08E, 0x080,
	0x06A, 0x054, 0x048, 0x036,
}

// 16-entry DAC level ramp shared by all channel volume tables.
var levelTable = [16]uint16{
	0, 1092, 2184, 3276, 4369, 5461, 6553, 7645,
	8738, 9830, 10922, 12014, 13107, 14199, 15291, 16384,
}
