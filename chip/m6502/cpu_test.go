package m6502

import (
	"errors"
	"testing"
)

// flatBus is a 64 KiB RAM without any mapping, enough to run small
// programs.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Read8(addr uint16) uint8 {
	return b.mem[addr]
}

func (b *flatBus) Write8(addr uint16, val uint8) bool {
	b.mem[addr] = val
	return true
}

func newTestCPU(org uint16, code []byte) (*CPU, *flatBus) {
	bus := &flatBus{}
	copy(bus.mem[org:], code)
	cpu := New(bus)
	cpu.Reset()
	cpu.PC = org
	return cpu, bus
}

func TestCallBudget(t *testing.T) {
	// 0x8000: NOP
	// 0x8001: RTS
	cpu, _ := newTestCPU(0x8000, []byte{0xEA, 0x60})

	if got := cpu.Call(0x8000, 2); got != 1 {
		t.Fatalf("Call with budget 2 = %d, want 1", got)
	}

	cpu, _ = newTestCPU(0x8000, []byte{0xEA, 0x60})
	if got := cpu.Call(0x8000, 1); got != 0 {
		t.Fatalf("Call with budget 1 = %d, want 0", got)
	}
	if got := cpu.Resume(1); got != 1 {
		t.Fatalf("Resume(1) = %d, want 1", got)
	}
}

func TestCallUnlimited(t *testing.T) {
	// A countdown loop: LDX #$10; DEX; BNE -3; RTS.
	cpu, _ := newTestCPU(0x8000, []byte{0xA2, 0x10, 0xCA, 0xD0, 0xFD, 0x60})
	if got := cpu.Call(0x8000, -1); got != 1 {
		t.Fatalf("Call = %d, want 1", got)
	}
	if cpu.X != 0 {
		t.Errorf("X = %d, want 0", cpu.X)
	}
}

func TestCallUndefinedOpcode(t *testing.T) {
	// 0x02 is not part of the implemented subset.
	cpu, _ := newTestCPU(0x8000, []byte{0xEA, 0x02, 0x60})
	if got := cpu.Call(0x8000, -1); got != -1 {
		t.Fatalf("Call = %d, want -1", got)
	}
	if cpu.PC != 0x8001 {
		t.Errorf("PC = %04X, want 8001 (rewound to faulty opcode)", cpu.PC)
	}
}

func TestJSRRTSBalancesStack(t *testing.T) {
	// JSR 0x9000; ...; at 0x9000: RTS.
	cpu, bus := newTestCPU(0x8000, []byte{0x20, 0x00, 0x90, 0xEA})
	bus.mem[0x9000] = 0x60

	sp := cpu.SP
	for i := 0; i < 3; i++ { // JSR, RTS, NOP
		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if cpu.SP != sp {
		t.Errorf("SP = %02X, want %02X", cpu.SP, sp)
	}
	if cpu.PC != 0x8004 {
		t.Errorf("PC = %04X, want 8004", cpu.PC)
	}
}

func TestStepUndefined(t *testing.T) {
	cpu, _ := newTestCPU(0x8000, []byte{0xFF})
	err := cpu.Step()
	if !errors.Is(err, ErrUndefinedOpcode) {
		t.Fatalf("Step() error = %v, want ErrUndefinedOpcode", err)
	}
	if cpu.PC != 0x8000 {
		t.Errorf("PC = %04X, want 8000", cpu.PC)
	}
}

func TestADCOverflow(t *testing.T) {
	tests := []struct {
		a, operand uint8
		carryIn    bool
		wantA      uint8
		wantC      bool
		wantV      bool
		wantN      bool
		wantZ      bool
	}{
		{a: 0x50, operand: 0x10, wantA: 0x60},
		{a: 0x50, operand: 0x50, wantA: 0xA0, wantV: true, wantN: true},
		{a: 0xD0, operand: 0x90, wantA: 0x60, wantC: true, wantV: true},
		{a: 0xFF, operand: 0x01, wantA: 0x00, wantC: true, wantZ: true},
		{a: 0x00, operand: 0x00, carryIn: true, wantA: 0x01},
	}
	for _, tt := range tests {
		cpu, _ := newTestCPU(0x8000, []byte{0x69, tt.operand}) // ADC #imm
		cpu.A = tt.a
		cpu.P.SetCarry(tt.carryIn)
		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}
		if cpu.A != tt.wantA {
			t.Errorf("ADC %02X+%02X: A = %02X, want %02X", tt.a, tt.operand, cpu.A, tt.wantA)
		}
		if cpu.P.Carry() != tt.wantC || cpu.P.Overflow() != tt.wantV ||
			cpu.P.Negative() != tt.wantN || cpu.P.Zero() != tt.wantZ {
			t.Errorf("ADC %02X+%02X: P = %s", tt.a, tt.operand, cpu.P)
		}
	}
}

func TestSBC(t *testing.T) {
	// SEC; SBC #$30 with A=0x50.
	cpu, _ := newTestCPU(0x8000, []byte{0x38, 0xE9, 0x30})
	cpu.A = 0x50
	for i := 0; i < 2; i++ {
		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if cpu.A != 0x20 {
		t.Errorf("A = %02X, want 20", cpu.A)
	}
	if !cpu.P.Carry() {
		t.Error("carry should be set (no borrow)")
	}
}

func TestIndirectJMPNoPageBug(t *testing.T) {
	// JMP ($80FF): the pointer high byte is read at 0x8100, not 0x8000.
	cpu, bus := newTestCPU(0x4000, []byte{0x6C, 0xFF, 0x80})
	bus.mem[0x80FF] = 0x34
	bus.mem[0x8100] = 0x12
	bus.mem[0x8000] = 0x99
	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if cpu.PC != 0x1234 {
		t.Errorf("PC = %04X, want 1234", cpu.PC)
	}
}

func TestAddressingModes(t *testing.T) {
	// LDA $10,X / STA $2000,Y exercise indexed modes end to end.
	cpu, bus := newTestCPU(0x8000, []byte{
		0xA2, 0x05, // LDX #$05
		0xB5, 0x10, // LDA $10,X  -> reads 0x15
		0xA0, 0x03, // LDY #$03
		0x99, 0x00, 0x20, // STA $2000,Y
		0x60, // RTS
	})
	bus.mem[0x15] = 0x42
	if got := cpu.Call(0x8000, -1); got != 1 {
		t.Fatalf("Call = %d, want 1", got)
	}
	if bus.mem[0x2003] != 0x42 {
		t.Errorf("mem[2003] = %02X, want 42", bus.mem[0x2003])
	}
}

func TestIndexedIndirect(t *testing.T) {
	cpu, bus := newTestCPU(0x8000, []byte{
		0xA2, 0x04, // LDX #$04
		0xA1, 0x20, // LDA ($20,X) -> pointer at 0x24
		0x60,
	})
	bus.mem[0x24] = 0x00
	bus.mem[0x25] = 0x30
	bus.mem[0x3000] = 0x77
	if got := cpu.Call(0x8000, -1); got != 1 {
		t.Fatalf("Call = %d, want 1", got)
	}
	if cpu.A != 0x77 {
		t.Errorf("A = %02X, want 77", cpu.A)
	}
}

func TestIndirectIndexed(t *testing.T) {
	cpu, bus := newTestCPU(0x8000, []byte{
		0xA0, 0x10, // LDY #$10
		0xB1, 0x20, // LDA ($20),Y
		0x60,
	})
	bus.mem[0x20] = 0x00
	bus.mem[0x21] = 0x30
	bus.mem[0x3010] = 0x55
	if got := cpu.Call(0x8000, -1); got != 1 {
		t.Fatalf("Call = %d, want 1", got)
	}
	if cpu.A != 0x55 {
		t.Errorf("A = %02X, want 55", cpu.A)
	}
}

func TestShifts(t *testing.T) {
	// ASL A; ROL A; LSR A; ROR A on a known pattern.
	cpu, _ := newTestCPU(0x8000, []byte{0x0A, 0x2A, 0x4A, 0x6A})
	cpu.A = 0x81

	if err := cpu.Step(); err != nil { // ASL: 0x81 -> 0x02, C=1
		t.Fatal(err)
	}
	if cpu.A != 0x02 || !cpu.P.Carry() {
		t.Fatalf("after ASL: A=%02X C=%v", cpu.A, cpu.P.Carry())
	}
	if err := cpu.Step(); err != nil { // ROL: 0x02 -> 0x05, C=0
		t.Fatal(err)
	}
	if cpu.A != 0x05 || cpu.P.Carry() {
		t.Fatalf("after ROL: A=%02X C=%v", cpu.A, cpu.P.Carry())
	}
	if err := cpu.Step(); err != nil { // LSR: 0x05 -> 0x02, C=1
		t.Fatal(err)
	}
	if cpu.A != 0x02 || !cpu.P.Carry() {
		t.Fatalf("after LSR: A=%02X C=%v", cpu.A, cpu.P.Carry())
	}
	if err := cpu.Step(); err != nil { // ROR: 0x02 -> 0x81, C=0
		t.Fatal(err)
	}
	if cpu.A != 0x81 || cpu.P.Carry() {
		t.Fatalf("after ROR: A=%02X C=%v", cpu.A, cpu.P.Carry())
	}
}

func TestBIT(t *testing.T) {
	cpu, bus := newTestCPU(0x8000, []byte{0x24, 0x10}) // BIT $10
	bus.mem[0x10] = 0xC0
	cpu.A = 0x3F
	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}
	if !cpu.P.Zero() || !cpu.P.Overflow() || !cpu.P.Negative() {
		t.Errorf("P = %s, want Z, V and N set", cpu.P)
	}
}

func TestPString(t *testing.T) {
	p := P(0b00110100)
	if got := p.String(); got != "nvUBdIzc" {
		t.Errorf("got P = %s, want %s", got, "nvUBdIzc")
	}
	p = P(0b00000100)
	if p.String() != "nvubdIzc" {
		t.Errorf("got P = %s, want %s", p.String(), "nvubdIzc")
	}
}
