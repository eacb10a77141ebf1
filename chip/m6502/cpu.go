// Package m6502 implements an interpreter for the legal MOS 6502
// instruction subset used by NSF music drivers. There is no cycle
// counting and no interrupt vectoring: the interpreter exists to run
// INIT/PLAY subroutines against a memory bus, under an instruction
// budget so a runaway driver cannot hang the caller.
package m6502

import (
	"errors"
	"fmt"

	"chipdec/emu/log"
)

// Bus is the CPU's view of memory. Write8 reports whether the write
// landed in writable storage.
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8) bool
}

// ErrUndefinedOpcode is returned by Step when the fetched opcode is not
// part of the implemented subset. PC is rewound to the faulty byte.
var ErrUndefinedOpcode = errors.New("undefined opcode")

type CPU struct {
	Bus Bus

	A, X, Y, SP uint8
	PC          uint16
	P           P

	// Scratch state set up by the addressing mode of the instruction
	// currently executing.
	absAddr uint16
	relAddr uint16
	implied bool

	// Stack pointer watermark used by Call/Resume to detect the
	// return from the called subroutine.
	stopSP uint8
}

func New(bus Bus) *CPU {
	return &CPU{Bus: bus}
}

// Reset reinitializes register state.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.PC = 0
	c.P = 0
	c.absAddr = 0
	c.relAddr = 0
	c.implied = false
}

// Power is a cold boot. Register-wise it is identical to Reset; the
// owning system additionally clears its RAM.
func (c *CPU) Power() {
	c.Reset()
}

func (c *CPU) read(addr uint16) uint8 {
	return c.Bus.Read8(addr)
}

func (c *CPU) write(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) fetch() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
}

/* stack, fixed at page 0x100 */

func (c *CPU) push8(val uint8) {
	c.write(0x100+uint16(c.SP), val)
	c.SP--
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.read(0x100 + uint16(c.SP))
}

// Step executes a single instruction. On an undefined opcode, PC is
// rewound to the opcode byte and ErrUndefinedOpcode returned.
func (c *CPU) Step() error {
	if e := log.ModCPU.DebugZ("exec"); e != nil {
		e.Hex16("pc", c.PC).
			String("op", c.Disasm(c.PC)).
			Hex8("a", c.A).
			Hex8("x", c.X).
			Hex8("y", c.Y).
			Hex8("sp", c.SP).
			End()
	}

	opcode := c.fetch()
	ins := &ops[opcode]
	if ins.op == nil {
		c.PC--
		log.ModCPU.ErrorZ("undefined opcode").
			Hex8("opcode", opcode).
			Hex16("pc", c.PC).
			End()
		return fmt.Errorf("%w: 0x%02X at 0x%04X", ErrUndefinedOpcode, opcode, c.PC)
	}
	c.implied = false
	ins.mode(c)
	ins.op(c)
	return nil
}

// Call fakes a JSR to addr and runs until the subroutine returns, the
// instruction budget is exhausted, or an undefined opcode is hit.
// A negative budget means unlimited.
//
// Returns 1 when the subroutine RTSed, 0 when the budget ran out
// (Resume may continue), -1 on an undefined opcode.
func (c *CPU) Call(addr uint16, maxInsns int) int {
	c.stopSP = c.SP
	c.absAddr = addr
	jsr(c)
	return c.Resume(maxInsns)
}

// Resume continues the subroutine started by Call under a fresh
// instruction budget.
func (c *CPU) Resume(maxInsns int) int {
	for c.stopSP != c.SP && maxInsns != 0 {
		if err := c.Step(); err != nil {
			return -1
		}
		if maxInsns > 0 {
			maxInsns--
		}
	}
	if c.stopSP == c.SP {
		return 1
	}
	return 0
}
