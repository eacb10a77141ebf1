// Package nes ties the 6502, the APU and the NSF cartridge together
// behind the 2A03 memory map.
package nes

import (
	"chipdec/emu/log"
)

// A cartridge holds at most this many immutable data blocks.
const maxDataBlocks = 4

const bbRAMSize = 0x2000

type dataBlock struct {
	addr uint32
	data []byte
}

// Cartridge is the NSF cartridge: a set of immutable data blocks mapped
// into 0x8000..0xFFFF, eight bank-select registers implementing mapper
// 031, and 8 KiB of battery-backed RAM at 0x6000..0x7FFF.
type Cartridge struct {
	blocks  []dataBlock
	bank    [8]uint8
	banking bool

	mapper031BaseAddress uint32

	bbRAM []byte
}

func NewCartridge() *Cartridge {
	c := &Cartridge{
		mapper031BaseAddress: 0xFFFF,
		// Battery RAM is small enough to allocate up front and skip
		// the nil check on the access path.
		bbRAM: make([]byte, bbRAMSize),
	}
	for i := range c.bank {
		c.bank[i] = uint8(i)
	}
	return c
}

func (c *Cartridge) Reset() {}

func (c *Cartridge) Power() {
	c.bank = [8]uint8{0, 1, 2, 3, 4, 5, 6, 7}
	c.banking = false
	clear(c.bbRAM)
}

// SetBlock registers data as an immutable block based at addr. Blocks
// beyond the static limit are dropped with an error log.
func (c *Cartridge) SetBlock(addr uint32, data []byte) {
	if len(data) < 2 {
		log.ModMem.ErrorZ("data block too short").Int("len", len(data)).End()
		return
	}
	if len(c.blocks) >= maxDataBlocks {
		log.ModMem.ErrorZ("out of data block slots").Hex32("addr", addr).End()
		return
	}
	if addr < c.mapper031BaseAddress {
		c.mapper031BaseAddress = addr & 0xF000
	}
	c.blocks = append(c.blocks, dataBlock{addr: addr, data: data})
	log.ModMem.InfoZ("new data block").
		Hex32("addr", addr).
		Int("len", len(data)).
		End()
}

// SetBlockPrefixed registers a block whose first two bytes carry its
// little-endian base address, the layout of VGM 0x67 data blocks.
func (c *Cartridge) SetBlockPrefixed(data []byte) {
	if len(data) < 2 {
		log.ModMem.ErrorZ("data block too short").Int("len", len(data)).End()
		return
	}
	addr := uint32(data[0]) | uint32(data[1])<<8
	c.SetBlock(addr, data[2:])
}

// mapper031 translates a bus address into the flat data block space.
// Banking stays off until the first write to the bank registers; while
// off, ROM reads use the blocks' native load addresses.
func (c *Cartridge) mapper031(addr uint16) uint32 {
	if !c.banking || addr < 0x8000 || addr >= 0xFFFA {
		return uint32(addr)
	}
	return c.mapper031BaseAddress +
		(uint32(c.bank[(addr>>12)&0x07])<<12 | uint32(addr&0x0FFF))
}

func (c *Cartridge) Write(addr uint16, data uint8) bool {
	if addr < 0x5000 {
		log.ModMem.ErrorZ("write outside cartridge space").Hex16("addr", addr).End()
		return false
	}
	if addr <= 0x5FFF {
		c.banking = true
		c.bank[addr&0x07] = data
		log.ModMem.InfoZ("bank select").
			Int("bank", int(addr&0x07)).
			Hex8("val", data).
			End()
		return true
	}
	if addr < 0x8000 {
		c.bbRAM[addr-0x6000] = data
		log.ModMem.DebugZ("battery ram write").
			Hex16("addr", addr).
			Hex8("val", data).
			End()
		return true
	}
	log.ModMem.ErrorZ("write to rom").Hex16("addr", addr).End()
	return false
}

func (c *Cartridge) Read(addr uint16) uint8 {
	if addr < 0x5000 {
		log.ModMem.ErrorZ("read outside cartridge space").Hex16("addr", addr).End()
		return 0x00
	}
	if addr < 0x6000 {
		return c.bank[addr&0x07]
	}
	if addr < 0x8000 {
		return c.bbRAM[addr-0x6000]
	}
	mapped := c.mapper031(addr)
	for i := range c.blocks {
		b := &c.blocks[i]
		if mapped >= b.addr && mapped < b.addr+uint32(len(b.data)) {
			return b.data[mapped-b.addr]
		}
	}
	log.ModMem.ErrorZ("unmapped rom read").
		Hex16("addr", addr).
		Hex32("mapped", mapped).
		End()
	return 0x00
}
