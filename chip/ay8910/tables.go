package ay8910

// 16-entry DAC amplitude ramp, shared with the NES level scale so both
// chips mix at the same loudness.
var ampTable = [16]uint16{
	0, 1092, 2184, 3276, 4369, 5461, 6553, 7645,
	8738, 9830, 10922, 12014, 13107, 14199, 15291, 16384,
}
