package m6502

type instruction struct {
	op   func(*CPU)
	mode func(*CPU)
}

// Dispatch table for the implemented subset. A zero entry (op == nil)
// is an undefined opcode. PLP/PHP, CLI/SEI, CLD/SED, CLV, TSX/TXS,
// BVC/BVS and all unofficial opcodes are absent.
var ops = [256]instruction{
	0x00: {brk, modeImp},
	0x01: {ora, modeIndX},
	0x05: {ora, modeZP},
	0x06: {asl, modeZP},
	0x09: {ora, modeImm},
	0x0A: {asl, modeImp},
	0x0D: {ora, modeAbs},
	0x0E: {asl, modeAbs},

	0x10: {bpl, modeRel},
	0x11: {ora, modeIndY},
	0x15: {ora, modeZPX},
	0x16: {asl, modeZPX},
	0x18: {clc, modeImp},
	0x19: {ora, modeAbsY},
	0x1D: {ora, modeAbsX},
	0x1E: {asl, modeAbsX},

	0x20: {jsr, modeAbs},
	0x21: {and, modeIndX},
	0x24: {bit, modeZP},
	0x25: {and, modeZP},
	0x26: {rol, modeZP},
	0x29: {and, modeImm},
	0x2A: {rol, modeImp},
	0x2C: {bit, modeAbs},
	0x2D: {and, modeAbs},
	0x2E: {rol, modeAbs},

	0x30: {bmi, modeRel},
	0x31: {and, modeIndY},
	0x35: {and, modeZPX},
	0x36: {rol, modeZPX},
	0x38: {sec, modeImp},
	0x39: {and, modeAbsY},
	0x3D: {and, modeAbsX},
	0x3E: {rol, modeAbsX},

	0x41: {eor, modeIndX},
	0x45: {eor, modeZP},
	0x46: {lsr, modeZP},
	0x48: {pha, modeImp},
	0x49: {eor, modeImm},
	0x4A: {lsr, modeImp},
	0x4C: {jmp, modeAbs},
	0x4D: {eor, modeAbs},
	0x4E: {lsr, modeAbs},

	0x51: {eor, modeIndY},
	0x55: {eor, modeZPX},
	0x56: {lsr, modeZPX},
	0x59: {eor, modeAbsY},
	0x5D: {eor, modeAbsX},
	0x5E: {lsr, modeAbsX},

	0x60: {rts, modeImp},
	0x61: {adc, modeIndX},
	0x65: {adc, modeZP},
	0x66: {ror, modeZP},
	0x68: {pla, modeImp},
	0x69: {adc, modeImm},
	0x6A: {ror, modeImp},
	0x6C: {jmp, modeInd},
	0x6D: {adc, modeAbs},
	0x6E: {ror, modeAbs},

	0x71: {adc, modeIndY},
	0x75: {adc, modeZPX},
	0x76: {ror, modeZPX},
	0x79: {adc, modeAbsY},
	0x7D: {adc, modeAbsX},
	0x7E: {ror, modeAbsX},

	0x81: {sta, modeIndX},
	0x84: {sty, modeZP},
	0x85: {sta, modeZP},
	0x86: {stx, modeZP},
	0x88: {dey, modeImp},
	0x8A: {txa, modeImp},
	0x8C: {sty, modeAbs},
	0x8D: {sta, modeAbs},
	0x8E: {stx, modeAbs},

	0x90: {bcc, modeRel},
	0x91: {sta, modeIndY},
	0x94: {sty, modeZPX},
	0x95: {sta, modeZPX},
	0x96: {stx, modeZPY},
	0x98: {tya, modeImp},
	0x99: {sta, modeAbsY},
	0x9D: {sta, modeAbsX},

	0xA0: {ldy, modeImm},
	0xA1: {lda, modeIndX},
	0xA2: {ldx, modeImm},
	0xA4: {ldy, modeZP},
	0xA5: {lda, modeZP},
	0xA6: {ldx, modeZP},
	0xA8: {tay, modeImp},
	0xA9: {lda, modeImm},
	0xAA: {tax, modeImp},
	0xAC: {ldy, modeAbs},
	0xAD: {lda, modeAbs},
	0xAE: {ldx, modeAbs},

	0xB0: {bcs, modeRel},
	0xB1: {lda, modeIndY},
	0xB4: {ldy, modeZPX},
	0xB5: {lda, modeZPX},
	0xB6: {ldx, modeZPY},
	0xB9: {lda, modeAbsY},
	0xBC: {ldy, modeAbsX},
	0xBD: {lda, modeAbsX},
	0xBE: {ldx, modeAbsY},

	0xC0: {cpy, modeImm},
	0xC1: {cmp, modeIndX},
	0xC4: {cpy, modeZP},
	0xC5: {cmp, modeZP},
	0xC6: {dec, modeZP},
	0xC8: {iny, modeImp},
	0xC9: {cmp, modeImm},
	0xCA: {dex, modeImp},
	0xCC: {cpy, modeAbs},
	0xCD: {cmp, modeAbs},
	0xCE: {dec, modeAbs},

	0xD0: {bne, modeRel},
	0xD1: {cmp, modeIndY},
	0xD5: {cmp, modeZPX},
	0xD6: {dec, modeZPX},
	0xD9: {cmp, modeAbsY},
	0xDD: {cmp, modeAbsX},
	0xDE: {dec, modeAbsX},

	0xE0: {cpx, modeImm},
	0xE1: {sbc, modeIndX},
	0xE4: {cpx, modeZP},
	0xE5: {sbc, modeZP},
	0xE6: {inc, modeZP},
	0xE8: {inx, modeImp},
	0xE9: {sbc, modeImm},
	0xEA: {nop, modeImp},
	0xEC: {cpx, modeAbs},
	0xED: {sbc, modeAbs},
	0xEE: {inc, modeAbs},

	0xF0: {beq, modeRel},
	0xF1: {sbc, modeIndY},
	0xF5: {sbc, modeZPX},
	0xF6: {inc, modeZPX},
	0xF9: {sbc, modeAbsY},
	0xFD: {sbc, modeAbsX},
	0xFE: {inc, modeAbsX},
}

/* addressing modes */

func modeImp(c *CPU) {
	c.implied = true
}

func modeImm(c *CPU) {
	c.absAddr = c.PC
	c.PC++
}

func modeZP(c *CPU) {
	c.absAddr = uint16(c.fetch())
}

func modeZPX(c *CPU) {
	c.absAddr = uint16(c.fetch()+c.X) & 0x00FF
}

func modeZPY(c *CPU) {
	c.absAddr = uint16(c.fetch()+c.Y) & 0x00FF
}

func modeRel(c *CPU) {
	c.relAddr = uint16(c.fetch())
	if c.relAddr&0x80 != 0 {
		c.relAddr |= 0xFF00
	}
}

func modeAbs(c *CPU) {
	c.absAddr = uint16(c.fetch())
	c.absAddr |= uint16(c.fetch()) << 8
}

func modeAbsX(c *CPU) {
	modeAbs(c)
	c.absAddr += uint16(c.X)
}

func modeAbsY(c *CPU) {
	modeAbs(c)
	c.absAddr += uint16(c.Y)
}

func modeInd(c *CPU) {
	modeAbs(c)
	// The page-crossing hardware bug is not reproduced: the high
	// pointer byte is read at absAddr+1 with 16-bit arithmetic.
	c.absAddr = uint16(c.read(c.absAddr)) | uint16(c.read(c.absAddr+1))<<8
}

func modeIndX(c *CPU) {
	ptr := uint16(c.fetch()+c.X) & 0x00FF
	c.absAddr = uint16(c.read(ptr)) | uint16(c.read((ptr+1)&0xFF))<<8
}

func modeIndY(c *CPU) {
	ptr := uint16(c.fetch())
	c.absAddr = uint16(c.read(ptr)) | uint16(c.read((ptr+1)&0xFF))<<8
	c.absAddr += uint16(c.Y)
}

/* arithmetic */

func addCarry(c *CPU, data uint8) {
	var carry uint16
	if c.P.Carry() {
		carry = 1
	}
	sum := uint16(c.A) + uint16(data) + carry
	c.P.SetCarry(sum > 0xFF)
	result := uint8(sum)
	c.P.checkZN(result)
	// Overflow when both operands share a sign the result does not.
	c.P.SetOverflow((^(c.A ^ data) & (c.A ^ result) & 0x80) != 0)
	c.A = result
}

func adc(c *CPU) {
	addCarry(c, c.read(c.absAddr))
}

func sbc(c *CPU) {
	// SBC is ADC of the one's complement.
	addCarry(c, c.read(c.absAddr)^0xFF)
}

func compare(c *CPU, reg uint8) {
	data := c.read(c.absAddr)
	c.P.SetCarry(reg >= data)
	c.P.checkZN(reg - data)
}

func cmp(c *CPU) { compare(c, c.A) }
func cpx(c *CPU) { compare(c, c.X) }
func cpy(c *CPU) { compare(c, c.Y) }

/* logic */

func and(c *CPU) {
	c.A &= c.read(c.absAddr)
	c.P.checkZN(c.A)
}

func ora(c *CPU) {
	c.A |= c.read(c.absAddr)
	c.P.checkZN(c.A)
}

func eor(c *CPU) {
	c.A ^= c.read(c.absAddr)
	c.P.checkZN(c.A)
}

func bit(c *CPU) {
	data := c.read(c.absAddr)
	c.P.SetZero(c.A&data == 0)
	c.P.SetOverflow(data&0x40 != 0)
	c.P.SetNegative(data&0x80 != 0)
}

/* shifts and rotates, targeting the accumulator when implied */

func (c *CPU) shiftOperand() uint8 {
	if c.implied {
		return c.A
	}
	return c.read(c.absAddr)
}

func (c *CPU) shiftResult(data uint8) {
	c.P.checkZN(data)
	if c.implied {
		c.A = data
	} else {
		c.write(c.absAddr, data)
	}
}

func asl(c *CPU) {
	data := c.shiftOperand()
	c.P.SetCarry(data&0x80 != 0)
	c.shiftResult(data << 1)
}

func lsr(c *CPU) {
	data := c.shiftOperand()
	c.P.SetCarry(data&0x01 != 0)
	c.shiftResult(data >> 1)
}

func rol(c *CPU) {
	data := c.shiftOperand()
	var carryIn uint8
	if c.P.Carry() {
		carryIn = 0x01
	}
	c.P.SetCarry(data&0x80 != 0)
	c.shiftResult(data<<1 | carryIn)
}

func ror(c *CPU) {
	data := c.shiftOperand()
	var carryIn uint8
	if c.P.Carry() {
		carryIn = 0x80
	}
	c.P.SetCarry(data&0x01 != 0)
	c.shiftResult(data>>1 | carryIn)
}

/* increments and decrements */

func inc(c *CPU) {
	data := c.read(c.absAddr) + 1
	c.write(c.absAddr, data)
	c.P.checkZN(data)
}

func dec(c *CPU) {
	data := c.read(c.absAddr) - 1
	c.write(c.absAddr, data)
	c.P.checkZN(data)
}

func inx(c *CPU) { c.X++; c.P.checkZN(c.X) }
func iny(c *CPU) { c.Y++; c.P.checkZN(c.Y) }
func dex(c *CPU) { c.X--; c.P.checkZN(c.X) }
func dey(c *CPU) { c.Y--; c.P.checkZN(c.Y) }

/* loads, stores and transfers */

func lda(c *CPU) { c.A = c.read(c.absAddr); c.P.checkZN(c.A) }
func ldx(c *CPU) { c.X = c.read(c.absAddr); c.P.checkZN(c.X) }
func ldy(c *CPU) { c.Y = c.read(c.absAddr); c.P.checkZN(c.Y) }

func sta(c *CPU) { c.write(c.absAddr, c.A) }
func stx(c *CPU) { c.write(c.absAddr, c.X) }
func sty(c *CPU) { c.write(c.absAddr, c.Y) }

func tax(c *CPU) { c.X = c.A; c.P.checkZN(c.X) }
func tay(c *CPU) { c.Y = c.A; c.P.checkZN(c.Y) }
func txa(c *CPU) { c.A = c.X; c.P.checkZN(c.A) }
func tya(c *CPU) { c.A = c.Y; c.P.checkZN(c.A) }

/* flow control */

func jmp(c *CPU) {
	c.PC = c.absAddr
}

func jsr(c *CPU) {
	ret := c.PC - 1
	c.push8(uint8(ret >> 8))
	c.push8(uint8(ret))
	c.PC = c.absAddr
}

func rts(c *CPU) {
	addr := uint16(c.pull8())
	addr |= uint16(c.pull8()) << 8
	c.PC = addr + 1
}

func brk(c *CPU) {
	// No interrupt vectoring: BRK behaves as a JSR through the IRQ
	// vector, with the status pushed afterwards.
	c.absAddr = uint16(c.read(0xFFFE)) | uint16(c.read(0xFFFF))<<8
	jsr(c)
	p := c.P | FlagU
	c.push8(uint8(p))
	c.P |= FlagB
}

func branch(c *CPU, taken bool) {
	if taken {
		c.PC += c.relAddr
	}
}

func bcc(c *CPU) { branch(c, !c.P.Carry()) }
func bcs(c *CPU) { branch(c, c.P.Carry()) }
func beq(c *CPU) { branch(c, c.P.Zero()) }
func bne(c *CPU) { branch(c, !c.P.Zero()) }
func bmi(c *CPU) { branch(c, c.P.Negative()) }
func bpl(c *CPU) { branch(c, !c.P.Negative()) }

/* stack and flags */

func pha(c *CPU) { c.push8(c.A) }
func pla(c *CPU) { c.A = c.pull8() }

func clc(c *CPU) { c.P.SetCarry(false) }
func sec(c *CPU) { c.P.SetCarry(true) }

func nop(*CPU) {}
