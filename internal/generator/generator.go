// Package generator amarra uma configuração de alvo, uma pilha de escopos e
// a seção de rótulos numa única geração de assembly.
package generator

import (
	"github.com/khevencolino/offlineasm/internal/debug"
	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/instr"
	"github.com/khevencolino/offlineasm/internal/label"
	"github.com/khevencolino/offlineasm/internal/scope"
	"github.com/khevencolino/offlineasm/internal/target"
	"github.com/khevencolino/offlineasm/internal/utils"
)

const (
	MARCADOR_INICIO = "offlineasm_begin"
	MARCADOR_FIM    = "offlineasm_end"
)

// Opcoes ajusta uma geração
type Opcoes struct {
	// Marcadores cerca o código com rótulos de início e fim. O rótulo de
	// início ocupa a primeira posição da seção, liberando todos os rótulos
	// do usuário para receber .alt_entry.
	Marcadores bool
	// Instrucoes troca a tabela de instruções; nil usa a global
	Instrucoes *instr.RegistroInstrucoes
}

// OpcoesPadrao liga os marcadores e usa a tabela global
func OpcoesPadrao() Opcoes {
	return Opcoes{Marcadores: true}
}

// Gerador acumula uma geração. Não é seguro para uso concorrente.
type Gerador struct {
	cfg        *target.Config
	instrucoes *instr.RegistroInstrucoes
	coletor    *scope.Coletor
	secao      label.Secao
	raiz       *scope.Escopo
	opcoes     Opcoes
	resultado  *emit.Node
}

// NovoGerador empilha o escopo raiz e, com marcadores, emite o início
func NovoGerador(cfg *target.Config, opcoes Opcoes) *Gerador {
	instrucoes := opcoes.Instrucoes
	if instrucoes == nil {
		instrucoes = instr.RegistroGlobal
	}

	g := &Gerador{
		cfg:        cfg,
		instrucoes: instrucoes,
		coletor:    scope.NovoColetor(),
		opcoes:     opcoes,
	}
	g.raiz = g.coletor.Push()

	debug.Printf("gerando para %s\n", cfg.Nome())

	if opcoes.Marcadores {
		g.Rotulo(marcador(MARCADOR_INICIO))
		g.Texto(cfg.Spacer() + "\n")
	}
	return g
}

func marcador(nome string) *label.Label {
	return label.New(nome).Global().Aligned().NoAltEntry()
}

// Config devolve o alvo da geração
func (g *Gerador) Config() *target.Config { return g.cfg }

// Instr expande uma instrução no escopo atual
func (g *Gerador) Instr(nome string, operandos ...emit.Node) {
	g.verificarAberto()
	if err := g.instrucoes.ValidarAridade(nome, len(operandos)); err != nil && g.instrucoes.EhInstrucao(nome) {
		debug.Printf("aviso: %v\n", err)
	}
	g.coletor.Add(g.instrucoes.Instrucao(nome, operandos...))
}

// Rotulo emite o bloco de diretivas do rótulo na posição atual
func (g *Gerador) Rotulo(l *label.Label) {
	g.verificarAberto()
	g.coletor.Add(g.secao.Emitir(g.cfg, l))
}

// Reg resolve um registrador lógico
func (g *Gerador) Reg(logico string) emit.Node {
	return g.cfg.Resolve(logico)
}

// Endereco compõe base(deslocamento). Fora da faixa da arquitetura só gera
// aviso; quem rejeita é o montador.
func (g *Gerador) Endereco(base emit.Node, deslocamento int) emit.Node {
	if !g.cfg.DisplacementInRange(deslocamento) {
		debug.Printf("aviso: deslocamento %d fora da faixa de %s\n", deslocamento, g.cfg.Nome())
	}
	return instr.Address(base, deslocamento)
}

// Imediato cria um operando imediato
func (g *Gerador) Imediato(valor int) emit.Node {
	return instr.Immediate(valor)
}

// Texto acrescenta texto literal
func (g *Gerador) Texto(texto string) {
	g.verificarAberto()
	g.coletor.Add(emit.Literal(texto))
}

// Bloco roda fn num escopo aninhado. O conteúdo também entra no escopo
// externo, na ordem em que foi gerado.
func (g *Gerador) Bloco(fn func()) emit.Node {
	g.verificarAberto()
	return g.coletor.Coletar(fn)
}

// Profundidade é o número de escopos abertos, contando a raiz
func (g *Gerador) Profundidade() int { return g.coletor.Profundidade() }

// Rotulos lista os símbolos emitidos até agora
func (g *Gerador) Rotulos() []string { return g.secao.Emitidos() }

// Arvore devolve a árvore da geração: o resultado final depois de Gerar,
// ou o que a raiz acumulou até agora.
func (g *Gerador) Arvore() emit.Node {
	if g.resultado != nil {
		return *g.resultado
	}
	return g.coletor.Finalize(g.raiz)
}

// Gerar fecha a geração e renderiza o texto. Depois disso o gerador não
// aceita mais código.
func (g *Gerador) Gerar() string {
	g.verificarAberto()
	if g.opcoes.Marcadores {
		g.Texto(g.cfg.Spacer() + "\n")
		g.Rotulo(marcador(MARCADOR_FIM))
	}

	g.coletor.Pop(g.raiz)
	arvore := g.coletor.Finalize(g.raiz)
	g.resultado = &arvore

	debug.Printf("geração encerrada: %d rótulos\n", len(g.secao.Emitidos()))
	return arvore.Render()
}

func (g *Gerador) verificarAberto() {
	if g.resultado != nil {
		utils.Abortar("gerador já encerrado", "")
	}
}

// Executar roda uma geração completa. Um aborto vira *utils.ErroFatal no
// retorno e a saída parcial é descartada; erros de fn são devolvidos como
// vieram.
func Executar(cfg *target.Config, opcoes Opcoes, fn func(g *Gerador) error) (arvore emit.Node, err error) {
	fatal := utils.CapturarFatal(func() {
		g := NovoGerador(cfg, opcoes)
		if err = fn(g); err != nil {
			return
		}
		g.Gerar()
		arvore = g.Arvore()
	})
	if fatal != nil {
		return emit.Node{}, fatal
	}
	if err != nil {
		return emit.Node{}, err
	}
	return arvore, nil
}
