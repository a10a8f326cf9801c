package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/generator"
	"github.com/khevencolino/offlineasm/internal/target"
	"github.com/khevencolino/offlineasm/internal/utils"
)

func config(t *testing.T, triple string) *target.Config {
	t.Helper()
	flags, err := target.ParseTriple(triple)
	if err != nil {
		t.Fatalf("ParseTriple(%s): %v", triple, err)
	}
	cfg, err := target.New(flags)
	if err != nil {
		t.Fatalf("target.New: %v", err)
	}
	return cfg
}

func rodar(t *testing.T, triple, fonte string) (emit.Node, error) {
	t.Helper()
	return generator.Executar(config(t, triple), generator.Opcoes{}, func(g *generator.Gerador) error {
		return Executar(g, fonte, "teste.lua")
	})
}

func TestScriptRendersInstructions(t *testing.T) {
	arvore, err := rodar(t, "arm64-linux-gcc", `
label("entry"):global():aligned(16):emit()
move(reg("t0"), reg("t1"))
instr("addp", imm(8), reg("sp"))
loadq(addr(reg("cfr"), -8), "x7")
ret()
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	want := ".text\n" +
		"brk #0xc471\n" +
		".balignl 16, 0xd4388e20\n" +
		".globl entry\n" +
		".hidden entry\n" +
		"entry:\n" +
		"\tmove32 x0, x1\n" +
		"\tadd32 8, sp\n" +
		"\tloadq32 x29(-8), x7\n" +
		"\tret32\n"
	if got := arvore.Render(); got != want {
		t.Fatalf("got\n%q\nwant\n%q", got, want)
	}
}

func TestScriptBlocksAndLabelRefs(t *testing.T) {
	arvore, err := rodar(t, "arm64-darwin-clang", `
local volta = label("volta"):infile()
block(function()
  volta:emit()
  block(function() jmp(volta:ref()) end)
end)
call(volta)
text("\t// fim\n")
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	want := cfgText(t) + "\nLvolta:\n\tjmp32 Lvolta\n\tcall32 Lvolta\n\t// fim\n"
	if got := arvore.Render(); got != want {
		t.Fatalf("got %q; want %q", got, want)
	}
}

func cfgText(t *testing.T) string {
	return config(t, "arm64-darwin-clang").TextSection()
}

func TestErrorInstructionIsFatal(t *testing.T) {
	for _, fonte := range []string{
		`move(reg("t0"), reg("t1")) instr("error")`,
		`local ok = pcall(instr, "error") move(reg("t0"), reg("t1"))`,
		`block(function() instr("error") end)`,
		`reg("x99")`,
		`while true do pcall(instr, "error") end`,
		`while true do xpcall(function() instr("error") end, print) end`,
		`local co = coroutine.create(function() instr("error") end)
coroutine.resume(co)
move(reg("t0"), reg("t1"))`,
	} {
		arvore, err := rodar(t, "arm64-linux-gcc", fonte)
		var fatal *utils.ErroFatal
		if !errors.As(err, &fatal) {
			t.Errorf("[%s] expected fatal, got %v", fonte, err)
		}
		if arvore.Render() != "" {
			t.Errorf("[%s] no text may be produced, got %q", fonte, arvore.Render())
		}
	}
}

func TestLuaErrorsAreOrdinary(t *testing.T) {
	tests := []struct {
		name  string
		fonte string
		linha int
	}{
		{"erro de sintaxe", "move()\n\nlocal = 1", 3},
		{"erro em tempo de execução", "\n\nerror('boom')", 3},
		{"aridade do prelude", "reg()", 1},
		{"operando inválido", "\nmove({}, reg('t0'))", 2},
		{"imediato fracionário", "\nimm(1.5)", 2},
		{"operando fracionário", "move(1.5, reg('t0'))", 1},
		{"deslocamento fracionário", "addr(reg('cfr'), 0.5)", 1},
		{"alinhamento fracionário", "\n\nlabel('x'):aligned(2.5)", 3},
	}
	for _, tc := range tests {
		_, err := rodar(t, "arm64-linux-gcc", tc.fonte)
		var erro *utils.CompilerError
		if !errors.As(err, &erro) {
			t.Errorf("[%s] expected *utils.CompilerError, got %T %v", tc.name, err, err)
			continue
		}
		if erro.Linha != tc.linha {
			t.Errorf("[%s] line = %d; want %d (%s)", tc.name, erro.Linha, tc.linha, erro.Mensagem)
		}
	}
}

func TestTrampolimForEveryArch(t *testing.T) {
	tests := []struct {
		triple  string
		trechos []string
	}{
		{"arm64-linux-gcc", []string{"\tpush32 x29, lr\n", "\tstoreq32 x0, sp(0)\n", "\tcall32 x1\n"}},
		{"arm64e-darwin-clang", []string{"_vmEntryToNative:\n", "\tcall32 x1\n"}},
		{"x86_64-linux-gcc", []string{"\tpush32 rbp\n", "\tstoreq32 rdi, rsp(0)\n", "\tcall32 rsi\n"}},
		{"x86_64-windows-msvc", []string{"int3\n.balign 16, 0xcc\n"}},
		{"armv7-linux-gcc", []string{".thumb_func\n", "\tpop32 r7, lr\n"}},
		{"riscv64-linux-gcc", []string{".attribute arch, \"rv64gc\"\n", "\tcall32 a1\n"}},
	}
	for _, tc := range tests {
		arvore, err := rodar(t, tc.triple, Trampolim)
		if err != nil {
			t.Errorf("[%s] %v", tc.triple, err)
			continue
		}
		texto := arvore.Render()
		if strings.Contains(texto, "<invalid:") {
			t.Errorf("[%s] unresolved register in\n%s", tc.triple, texto)
		}
		for _, trecho := range tc.trechos {
			if !strings.Contains(texto, trecho) {
				t.Errorf("[%s] missing %q in\n%s", tc.triple, trecho, texto)
			}
		}
	}
}

func TestPreludeGlobals(t *testing.T) {
	g := generator.NovoGerador(config(t, "arm64-linux-gcc"), generator.Opcoes{})
	s := NovoInterpretador(g, nil)
	defer s.Fechar()

	funcoes := strings.Join(s.Funcoes(), ",")
	for _, nome := range []string{"reg", "instr", "label", "block", "move", "storepairq", "bpeq"} {
		if _, ok := s.ObterFuncaoPrelude(nome); !ok {
			t.Errorf("missing global %s in %s", nome, funcoes)
		}
	}
	for _, nome := range []string{"break", "error"} {
		if _, ok := s.ObterFuncaoPrelude(nome); ok {
			t.Errorf("%s must not shadow Lua", nome)
		}
	}

	if err := s.Interpretar(`assert(alvo.arch == "arm64" and alvo.os == "linux" and not alvo.altentry)`, "alvo.lua"); err != nil {
		t.Fatalf("alvo table: %v", err)
	}
	if err := s.Interpretar(`assert(tostring(reg("cfr")) == "x29")`, "tostring.lua"); err != nil {
		t.Fatalf("operand tostring: %v", err)
	}
}
