package m6502

import "fmt"

// Operand formats for the disassembler, one per addressing mode.
type operandKind uint8

const (
	opNone operandKind = iota
	opAccumulator
	opImmediate
	opZeroPage
	opZeroPageX
	opZeroPageY
	opRelative
	opAbsolute
	opAbsoluteX
	opAbsoluteY
	opIndirect
	opIndirectX
	opIndirectY
)

type disasmEntry struct {
	name string
	kind operandKind
}

var disasmTable = func() [256]disasmEntry {
	var t [256]disasmEntry

	set := func(opcode uint8, name string, kind operandKind) {
		t[opcode] = disasmEntry{name: name, kind: kind}
	}

	for _, e := range []struct {
		name    string
		kind    operandKind
		opcodes []uint8
	}{
		{"BRK", opNone, []uint8{0x00}},
		{"ORA", opIndirectX, []uint8{0x01}}, {"ORA", opZeroPage, []uint8{0x05}},
		{"ORA", opImmediate, []uint8{0x09}}, {"ORA", opAbsolute, []uint8{0x0D}},
		{"ORA", opIndirectY, []uint8{0x11}}, {"ORA", opZeroPageX, []uint8{0x15}},
		{"ORA", opAbsoluteY, []uint8{0x19}}, {"ORA", opAbsoluteX, []uint8{0x1D}},
		{"ASL", opZeroPage, []uint8{0x06}}, {"ASL", opAccumulator, []uint8{0x0A}},
		{"ASL", opAbsolute, []uint8{0x0E}}, {"ASL", opZeroPageX, []uint8{0x16}},
		{"ASL", opAbsoluteX, []uint8{0x1E}},
		{"BPL", opRelative, []uint8{0x10}}, {"CLC", opNone, []uint8{0x18}},
		{"JSR", opAbsolute, []uint8{0x20}},
		{"AND", opIndirectX, []uint8{0x21}}, {"AND", opZeroPage, []uint8{0x25}},
		{"AND", opImmediate, []uint8{0x29}}, {"AND", opAbsolute, []uint8{0x2D}},
		{"AND", opIndirectY, []uint8{0x31}}, {"AND", opZeroPageX, []uint8{0x35}},
		{"AND", opAbsoluteY, []uint8{0x39}}, {"AND", opAbsoluteX, []uint8{0x3D}},
		{"BIT", opZeroPage, []uint8{0x24}}, {"BIT", opAbsolute, []uint8{0x2C}},
		{"ROL", opZeroPage, []uint8{0x26}}, {"ROL", opAccumulator, []uint8{0x2A}},
		{"ROL", opAbsolute, []uint8{0x2E}}, {"ROL", opZeroPageX, []uint8{0x36}},
		{"ROL", opAbsoluteX, []uint8{0x3E}},
		{"BMI", opRelative, []uint8{0x30}}, {"SEC", opNone, []uint8{0x38}},
		{"EOR", opIndirectX, []uint8{0x41}}, {"EOR", opZeroPage, []uint8{0x45}},
		{"EOR", opImmediate, []uint8{0x49}}, {"EOR", opAbsolute, []uint8{0x4D}},
		{"EOR", opIndirectY, []uint8{0x51}}, {"EOR", opZeroPageX, []uint8{0x55}},
		{"EOR", opAbsoluteY, []uint8{0x59}}, {"EOR", opAbsoluteX, []uint8{0x5D}},
		{"LSR", opZeroPage, []uint8{0x46}}, {"LSR", opAccumulator, []uint8{0x4A}},
		{"LSR", opAbsolute, []uint8{0x4E}}, {"LSR", opZeroPageX, []uint8{0x56}},
		{"LSR", opAbsoluteX, []uint8{0x5E}},
		{"PHA", opNone, []uint8{0x48}}, {"JMP", opAbsolute, []uint8{0x4C}},
		{"RTS", opNone, []uint8{0x60}},
		{"ADC", opIndirectX, []uint8{0x61}}, {"ADC", opZeroPage, []uint8{0x65}},
		{"ADC", opImmediate, []uint8{0x69}}, {"ADC", opAbsolute, []uint8{0x6D}},
		{"ADC", opIndirectY, []uint8{0x71}}, {"ADC", opZeroPageX, []uint8{0x75}},
		{"ADC", opAbsoluteY, []uint8{0x79}}, {"ADC", opAbsoluteX, []uint8{0x7D}},
		{"ROR", opZeroPage, []uint8{0x66}}, {"ROR", opAccumulator, []uint8{0x6A}},
		{"ROR", opAbsolute, []uint8{0x6E}}, {"ROR", opZeroPageX, []uint8{0x76}},
		{"ROR", opAbsoluteX, []uint8{0x7E}},
		{"PLA", opNone, []uint8{0x68}}, {"JMP", opIndirect, []uint8{0x6C}},
		{"STA", opIndirectX, []uint8{0x81}}, {"STA", opZeroPage, []uint8{0x85}},
		{"STA", opAbsolute, []uint8{0x8D}}, {"STA", opIndirectY, []uint8{0x91}},
		{"STA", opZeroPageX, []uint8{0x95}}, {"STA", opAbsoluteY, []uint8{0x99}},
		{"STA", opAbsoluteX, []uint8{0x9D}},
		{"STY", opZeroPage, []uint8{0x84}}, {"STY", opAbsolute, []uint8{0x8C}},
		{"STY", opZeroPageX, []uint8{0x94}},
		{"STX", opZeroPage, []uint8{0x86}}, {"STX", opAbsolute, []uint8{0x8E}},
		{"STX", opZeroPageY, []uint8{0x96}},
		{"DEY", opNone, []uint8{0x88}}, {"TXA", opNone, []uint8{0x8A}},
		{"BCC", opRelative, []uint8{0x90}}, {"TYA", opNone, []uint8{0x98}},
		{"LDY", opImmediate, []uint8{0xA0}}, {"LDY", opZeroPage, []uint8{0xA4}},
		{"LDY", opAbsolute, []uint8{0xAC}}, {"LDY", opZeroPageX, []uint8{0xB4}},
		{"LDY", opAbsoluteX, []uint8{0xBC}},
		{"LDA", opIndirectX, []uint8{0xA1}}, {"LDA", opZeroPage, []uint8{0xA5}},
		{"LDA", opImmediate, []uint8{0xA9}}, {"LDA", opAbsolute, []uint8{0xAD}},
		{"LDA", opIndirectY, []uint8{0xB1}}, {"LDA", opZeroPageX, []uint8{0xB5}},
		{"LDA", opAbsoluteY, []uint8{0xB9}}, {"LDA", opAbsoluteX, []uint8{0xBD}},
		{"LDX", opImmediate, []uint8{0xA2}}, {"LDX", opZeroPage, []uint8{0xA6}},
		{"LDX", opAbsolute, []uint8{0xAE}}, {"LDX", opZeroPageY, []uint8{0xB6}},
		{"LDX", opAbsoluteY, []uint8{0xBE}},
		{"TAY", opNone, []uint8{0xA8}}, {"TAX", opNone, []uint8{0xAA}},
		{"BCS", opRelative, []uint8{0xB0}},
		{"CPY", opImmediate, []uint8{0xC0}}, {"CPY", opZeroPage, []uint8{0xC4}},
		{"CPY", opAbsolute, []uint8{0xCC}},
		{"CMP", opIndirectX, []uint8{0xC1}}, {"CMP", opZeroPage, []uint8{0xC5}},
		{"CMP", opImmediate, []uint8{0xC9}}, {"CMP", opAbsolute, []uint8{0xCD}},
		{"CMP", opIndirectY, []uint8{0xD1}}, {"CMP", opZeroPageX, []uint8{0xD5}},
		{"CMP", opAbsoluteY, []uint8{0xD9}}, {"CMP", opAbsoluteX, []uint8{0xDD}},
		{"DEC", opZeroPage, []uint8{0xC6}}, {"DEC", opAbsolute, []uint8{0xCE}},
		{"DEC", opZeroPageX, []uint8{0xD6}}, {"DEC", opAbsoluteX, []uint8{0xDE}},
		{"INY", opNone, []uint8{0xC8}}, {"DEX", opNone, []uint8{0xCA}},
		{"BNE", opRelative, []uint8{0xD0}},
		{"CPX", opImmediate, []uint8{0xE0}}, {"CPX", opZeroPage, []uint8{0xE4}},
		{"CPX", opAbsolute, []uint8{0xEC}},
		{"SBC", opIndirectX, []uint8{0xE1}}, {"SBC", opZeroPage, []uint8{0xE5}},
		{"SBC", opImmediate, []uint8{0xE9}}, {"SBC", opAbsolute, []uint8{0xED}},
		{"SBC", opIndirectY, []uint8{0xF1}}, {"SBC", opZeroPageX, []uint8{0xF5}},
		{"SBC", opAbsoluteY, []uint8{0xF9}}, {"SBC", opAbsoluteX, []uint8{0xFD}},
		{"INC", opZeroPage, []uint8{0xE6}}, {"INC", opAbsolute, []uint8{0xEE}},
		{"INC", opZeroPageX, []uint8{0xF6}}, {"INC", opAbsoluteX, []uint8{0xFE}},
		{"INX", opNone, []uint8{0xE8}}, {"NOP", opNone, []uint8{0xEA}},
		{"BEQ", opRelative, []uint8{0xF0}},
	} {
		for _, op := range e.opcodes {
			set(op, e.name, e.kind)
		}
	}
	return t
}()

// Disasm formats the instruction at pc. Operand bytes are read through
// the bus, which has no read side effects in this machine.
func (c *CPU) Disasm(pc uint16) string {
	opcode := c.read(pc)
	e := disasmTable[opcode]
	if e.name == "" {
		return fmt.Sprintf(".byte $%02X", opcode)
	}
	op8 := func() uint8 { return c.read(pc + 1) }
	op16 := func() uint16 {
		return uint16(c.read(pc+1)) | uint16(c.read(pc+2))<<8
	}
	switch e.kind {
	case opAccumulator:
		return e.name + " A"
	case opImmediate:
		return fmt.Sprintf("%s #$%02X", e.name, op8())
	case opZeroPage:
		return fmt.Sprintf("%s $%02X", e.name, op8())
	case opZeroPageX:
		return fmt.Sprintf("%s $%02X,X", e.name, op8())
	case opZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", e.name, op8())
	case opRelative:
		rel := int8(op8())
		return fmt.Sprintf("%s $%04X", e.name, pc+2+uint16(int16(rel)))
	case opAbsolute:
		return fmt.Sprintf("%s $%04X", e.name, op16())
	case opAbsoluteX:
		return fmt.Sprintf("%s $%04X,X", e.name, op16())
	case opAbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", e.name, op16())
	case opIndirect:
		return fmt.Sprintf("%s ($%04X)", e.name, op16())
	case opIndirectX:
		return fmt.Sprintf("%s ($%02X,X)", e.name, op8())
	case opIndirectY:
		return fmt.Sprintf("%s ($%02X),Y", e.name, op8())
	}
	return e.name
}
