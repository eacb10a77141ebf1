package apu

// Delta modulation channel.
//
//	+----------+    +---------+
//	|DMA Reader|    |  Timer  |
//	+----------+    +---------+
//	     |               |
//	     |               v
//	+----------+    +---------+     +---------+     +---------+
//	|  Buffer  |----| Output  |---->| Counter |---->|   DAC   |
//	+----------+    +---------+     +---------+     +---------+

func (a *APU) updateDmcChannel(ch *channel) {
	if ch.dmcActive && ch.sequencer == 0 {
		if ch.dmcLen == 0 {
			if a.regs[regDmcFreq]&dmcLoopMask != 0 {
				ch.dmcAddr = uint16(a.regs[regDmcAddr])*0x40 + 0xC000
				ch.dmcLen = uint32(a.regs[regDmcLen])*16 + 1
			} else {
				ch.dmcIrqFlag = a.regs[regDmcFreq]&dmcIrqEnableMask != 0
				ch.dmcActive = false
				ch.output = uint32(a.dmcVolTable[15]) * uint32(ch.volume) >> 7
				return
			}
		}
		// The sample byte is fetched synchronously through the CPU
		// memory bus.
		ch.dmcBuffer = a.mem.Read8(ch.dmcAddr)
		ch.sequencer = 8
		ch.dmcAddr++
		ch.dmcLen--
		if ch.dmcAddr == 0x0000 {
			ch.dmcAddr = 0x8000
		}
	}

	if ch.sequencer > 0 {
		ch.counter += counterScaler
		for ch.counter >= ch.period {
			if ch.dmcBuffer&1 != 0 {
				if ch.volume <= 125 {
					ch.volume += 2
				}
			} else {
				if ch.volume >= 2 {
					ch.volume -= 2
				}
			}
			ch.sequencer--
			ch.dmcBuffer >>= 1
			ch.counter -= ch.period
		}
	}
	ch.output = uint32(a.dmcVolTable[15]) * uint32(ch.volume) >> 7
}
