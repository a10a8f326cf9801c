package instr_test

import (
	"strings"
	"testing"

	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/instr"
	"github.com/khevencolino/offlineasm/internal/utils"
)

func reg(nome string) emit.Node { return emit.Operand(nome) }

func TestInstructionRendering(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		operands []emit.Node
		want     string
	}{
		{"move", "move", []emit.Node{reg("x0"), reg("x1")}, "\tmove32 x0, x1\n"},
		{"addp renames mnemonic", "addp", []emit.Node{reg("sp"), reg("sp"), instr.Immediate(16)}, "\tadd32 sp, sp, 16\n"},
		{"subp", "subp", []emit.Node{reg("x2")}, "\tsub32 x2\n"},
		{"break has no operands", "break", nil, "\tbrk32\n"},
		{"ret", "ret", nil, "\tret32\n"},
		{"loadq with address", "loadq", []emit.Node{instr.Address(reg("x29"), 16), reg("x0")}, "\tloadq32 x29(16), x0\n"},
		{"storepairq", "storepairq", []emit.Node{reg("x29"), reg("lr"), instr.Address(reg("sp"), -16)}, "\tstorepairq32 x29, lr, sp(-16)\n"},
	}
	for _, tc := range tests {
		got := instr.Instruction(tc.mnemonic, tc.operands...).Render()
		if got != tc.want {
			t.Errorf("[%s] got %q; want %q", tc.name, got, tc.want)
		}
	}
}

func TestMoveOperandOrder(t *testing.T) {
	out := instr.Instruction("move", reg("x0"), reg("x1")).Render()

	iMove := strings.Index(out, "move")
	iX0 := strings.Index(out, "x0")
	iX1 := strings.Index(out, "x1")
	if iMove < 0 || iX0 < 0 || iX1 < 0 {
		t.Fatalf("missing parts in %q", out)
	}
	if !(iMove < iX0 && iX0 < iX1) {
		t.Fatalf("parts out of order in %q", out)
	}
}

func TestInstructionIsDeterministic(t *testing.T) {
	first := instr.Instruction("call", reg("x3")).Render()
	for i := 0; i < 5; i++ {
		instr.Instruction("move", reg("x0"), reg("x1"))
		if got := instr.Instruction("call", reg("x3")).Render(); got != first {
			t.Fatalf("call #%d rendered %q; first was %q", i, got, first)
		}
	}
}

func TestAddressDoesNotValidateRange(t *testing.T) {
	got := instr.Address(reg("sp"), 1<<40).Render()
	if got != "sp(1099511627776)" {
		t.Fatalf("got %q", got)
	}
}

func TestUnreachableInstructionIsFatal(t *testing.T) {
	var produced emit.Node
	fatal := utils.CapturarFatal(func() {
		produced = instr.Instruction("error", reg("x0"))
	})
	if fatal == nil {
		t.Fatal("error instruction must abort generation")
	}
	if produced.Render() != "" {
		t.Fatalf("no text may be produced, got %q", produced.Render())
	}
}

func TestUnknownInstructionIsFatal(t *testing.T) {
	fatal := utils.CapturarFatal(func() {
		instr.Instruction("frobnicate")
	})
	if fatal == nil || !strings.Contains(fatal.Error(), "frobnicate") {
		t.Fatalf("expected fatal naming the instruction, got %v", fatal)
	}
}

func TestRegistry(t *testing.T) {
	r := instr.NovoRegistroInstrucoes()

	nomes := r.ListarInstrucoes()
	if len(nomes) != 15 {
		t.Fatalf("expected 15 table rows, got %d: %v", len(nomes), nomes)
	}
	for i := 1; i < len(nomes); i++ {
		if nomes[i-1] > nomes[i] {
			t.Fatalf("names not sorted: %v", nomes)
		}
	}

	if err := r.ValidarAridade("move", 2); err != nil {
		t.Errorf("move with 2 operands: %v", err)
	}
	if err := r.ValidarAridade("move", 3); err == nil {
		t.Error("move with 3 operands must fail arity validation")
	}
	if err := r.ValidarAridade("push", 7); err != nil {
		t.Errorf("push is variadic: %v", err)
	}
	if err := r.ValidarAridade("nope", 0); err == nil {
		t.Error("unknown instruction must fail arity validation")
	}

	r.Registrar(instr.Modelo{Nome: "nop", Mnemonico: "nop", Aridade: 0})
	if got := r.Instrucao("nop").Render(); got != "\tnop\n" {
		t.Errorf("custom row rendered %q", got)
	}
	if instr.RegistroGlobal.EhInstrucao("nop") {
		t.Error("registering on a private registry must not touch the global one")
	}
}
