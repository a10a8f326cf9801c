package generator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/khevencolino/offlineasm/internal/debug"
	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/label"
	"github.com/khevencolino/offlineasm/internal/target"
	"github.com/khevencolino/offlineasm/internal/utils"
)

func config(t *testing.T, triple string, altEntry bool) *target.Config {
	t.Helper()
	flags, err := target.ParseTriple(triple)
	if err != nil {
		t.Fatalf("ParseTriple(%s): %v", triple, err)
	}
	flags.AltEntry = altEntry
	cfg, err := target.New(flags)
	if err != nil {
		t.Fatalf("target.New: %v", err)
	}
	return cfg
}

func TestGenerateWithoutMarkers(t *testing.T) {
	cfg := config(t, "arm64-linux-gcc", false)
	g := NovoGerador(cfg, Opcoes{})

	g.Rotulo(label.New("entry").Global().Aligned())
	g.Instr("move", g.Reg("t0"), g.Reg("t1"))
	g.Instr("loadq", g.Endereco(g.Reg("cfr"), 16), g.Reg("t2"))
	g.Instr("ret")

	want := ".text\n" +
		".balign 4\n" +
		".globl entry\n" +
		".hidden entry\n" +
		"entry:\n" +
		"\tmove32 x0, x1\n" +
		"\tloadq32 x29(16), x2\n" +
		"\tret32\n"
	if got := g.Gerar(); got != want {
		t.Fatalf("got\n%q\nwant\n%q", got, want)
	}
}

func TestMarkersMakeUserLabelsAltEntries(t *testing.T) {
	cfg := config(t, "arm64-darwin-clang", true)
	g := NovoGerador(cfg, OpcoesPadrao())
	g.Rotulo(label.New("llint_entry").Global().Aligned())
	g.Instr("break")
	texto := g.Gerar()

	if !strings.HasPrefix(texto, cfg.TextSection()+"\n.balign 4\n.globl _offlineasm_begin\n") {
		t.Fatalf("begin marker must open the section:\n%s", texto)
	}
	if strings.Count(texto, ".alt_entry") != 1 || !strings.Contains(texto, ".alt_entry _llint_entry\n") {
		t.Fatalf("only the user label may be an alternate entry:\n%s", texto)
	}
	if !strings.HasSuffix(texto, "brk #0xc471\n"+cfg.TextSection()+"\n.balign 4\n.globl _offlineasm_end\n.private_extern _offlineasm_end\n_offlineasm_end:\n") {
		t.Fatalf("end marker must close the text:\n%s", texto)
	}

	rotulos := g.Rotulos()
	if len(rotulos) != 3 || rotulos[0] != "_offlineasm_begin" || rotulos[2] != "_offlineasm_end" {
		t.Fatalf("labels = %v", rotulos)
	}
}

func TestBlocoKeepsInsertionOrder(t *testing.T) {
	cfg := config(t, "x86_64-linux-gcc", false)
	g := NovoGerador(cfg, Opcoes{})
	g.Texto("# antes\n")
	interno := g.Bloco(func() {
		g.Instr("push", g.Reg("cfr"))
		if g.Profundidade() != 2 {
			t.Errorf("depth inside block = %d", g.Profundidade())
		}
	})
	g.Texto("# depois\n")

	if interno.Render() != "\tpush32 rbp\n" {
		t.Fatalf("block rendered %q", interno.Render())
	}
	if got := g.Gerar(); got != "# antes\n\tpush32 rbp\n# depois\n" {
		t.Fatalf("got %q", got)
	}
}

func TestCallsAfterGerarAreFatal(t *testing.T) {
	cfg := config(t, "arm64-linux-gcc", false)
	g := NovoGerador(cfg, Opcoes{})
	g.Gerar()

	if fatal := utils.CapturarFatal(func() { g.Instr("ret") }); fatal == nil {
		t.Fatal("Instr after Gerar must abort")
	}
	if fatal := utils.CapturarFatal(func() { g.Gerar() }); fatal == nil {
		t.Fatal("second Gerar must abort")
	}
	if g.Arvore().Render() != "" {
		t.Fatalf("tree must stay the generated one, got %q", g.Arvore().Render())
	}
}

func TestDisplacementOutOfRangeOnlyWarns(t *testing.T) {
	var saida bytes.Buffer
	saidaAnterior := debug.Saida
	debug.Enabled, debug.Saida = true, &saida
	defer func() { debug.Enabled, debug.Saida = false, saidaAnterior }()

	cfg := config(t, "riscv64-linux-gcc", false)
	g := NovoGerador(cfg, Opcoes{})
	endereco := g.Endereco(g.Reg("sp"), 4096)

	if endereco.Render() != "sp(4096)" {
		t.Fatalf("got %q", endereco.Render())
	}
	if !strings.Contains(saida.String(), "4096") {
		t.Fatalf("expected a debug warning, got %q", saida.String())
	}
}

func TestExecutar(t *testing.T) {
	cfg := config(t, "arm64-linux-gcc", false)

	arvore, err := Executar(cfg, Opcoes{}, func(g *Gerador) error {
		g.Instr("move", g.Reg("t0"), g.Reg("t1"))
		return nil
	})
	if err != nil {
		t.Fatalf("Executar: %v", err)
	}
	if arvore.Render() != "\tmove32 x0, x1\n" {
		t.Fatalf("got %q", arvore.Render())
	}

	_, err = Executar(cfg, Opcoes{}, func(g *Gerador) error {
		g.Instr("move", g.Reg("t0"), g.Reg("t1"))
		g.Instr("error")
		return nil
	})
	var fatal *utils.ErroFatal
	if !errors.As(err, &fatal) {
		t.Fatalf("expected *utils.ErroFatal, got %v", err)
	}

	esperado := errors.New("falha comum")
	if _, err := Executar(cfg, Opcoes{}, func(*Gerador) error { return esperado }); err != esperado {
		t.Fatalf("ordinary errors must pass through, got %v", err)
	}
}

func TestUnbackedRegisterSentinel(t *testing.T) {
	cfg := config(t, "arm64-linux-gcc", false)
	arvore, err := Executar(cfg, Opcoes{}, func(g *Gerador) error {
		g.Instr("move", g.Reg("csr10"), g.Reg("t0"))
		return nil
	})
	if err != nil {
		t.Fatalf("Executar: %v", err)
	}
	if !strings.Contains(arvore.Render(), "<invalid:csr10>") {
		t.Fatalf("got %q", arvore.Render())
	}
	if arvore.Equal(emit.Node{}) {
		t.Fatal("tree must not be empty")
	}
}
