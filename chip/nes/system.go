package nes

import (
	"chipdec/chip/apu"
	"chipdec/chip/m6502"
	"chipdec/emu/log"
)

// System is the 2A03 memory map: 2 KiB of mirrored RAM, the APU
// register window, and the cartridge. It is the bus shared by the CPU
// (instruction fetches, driver reads/writes) and the APU (DMC sample
// fetches).
type System struct {
	CPU  *m6502.CPU
	APU  *apu.APU
	Cart *Cartridge

	ram [0x800]byte
}

func NewSystem() *System {
	s := &System{Cart: NewCartridge()}
	s.APU = apu.New(s)
	s.CPU = m6502.New(s)
	return s
}

func (s *System) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return s.ram[addr&0x07FF]
	case addr >= 0x4000 && addr < 0x4020:
		return s.APU.Read(addr)
	case addr >= 0x4020:
		return s.Cart.Read(addr)
	}
	log.ModMem.ErrorZ("unmapped read").Hex16("addr", addr).End()
	return 0xFF
}

func (s *System) Write8(addr uint16, data uint8) bool {
	switch {
	case addr < 0x2000:
		s.ram[addr&0x07FF] = data
		return true
	case addr >= 0x4000 && addr < 0x4020:
		s.APU.Write(addr, data)
		return true
	case addr >= 0x4020:
		return s.Cart.Write(addr, data)
	}
	log.ModMem.ErrorZ("unmapped write").Hex16("addr", addr).Hex8("val", data).End()
	return false
}

// Reset reinitializes the APU and cartridge. CPU registers are left to
// the caller: the NSF driver sets them up explicitly per track.
func (s *System) Reset() {
	s.APU.Reset()
	s.Cart.Reset()
}

// Power additionally clears RAM and cartridge state.
func (s *System) Power() {
	clear(s.ram[:])
	s.APU.Power()
	s.Cart.Power()
	s.CPU.Power()
}
