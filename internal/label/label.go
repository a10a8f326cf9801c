// Package label descreve posições nomeadas do código e expande cada uma no
// bloco de diretivas que o alvo espera.
package label

import (
	"github.com/samber/lo"

	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/target"
)

// Label é configurado no lugar pelos construtores; o texto final depende só
// do conjunto de atributos resolvido, não da ordem das chamadas.
type Label struct {
	nome         string
	global       bool
	noArquivo    bool
	alinhado     bool
	alinhamentos []int
	externo      bool
	semAltEntry  bool
}

// New cria um rótulo local ao arquivo, sem alinhamento e com ligação interna
func New(nome string) *Label {
	return &Label{nome: nome}
}

func (l *Label) Nome() string { return l.nome }

// Global exporta o símbolo. Prevalece sobre InFile.
func (l *Label) Global() *Label {
	l.global = true
	return l
}

// InFile troca o nome pelo prefixo de rótulo local do alvo, mantendo o
// símbolo fora da tabela de símbolos.
func (l *Label) InFile() *Label {
	l.noArquivo = true
	return l
}

// Aligned pede o alinhamento padrão
func (l *Label) Aligned() *Label {
	l.alinhado = true
	return l
}

// AlignedTo pede alinhamento explícito em n bytes, preenchido com
// instruções de parada. Vence o alinhamento padrão; entre vários pedidos
// vale o maior.
func (l *Label) AlignedTo(n int) *Label {
	if n > 0 && !lo.Contains(l.alinhamentos, n) {
		l.alinhamentos = append(l.alinhamentos, n)
	}
	return l
}

// Extern marca o símbolo como importável por outros objetos. Implica ligação
// global e dispensa a diretiva de visibilidade oculta.
func (l *Label) Extern() *Label {
	l.externo = true
	return l
}

// NoAltEntry impede a diretiva de entrada alternativa mesmo fora da primeira
// posição.
func (l *Label) NoAltEntry() *Label {
	l.semAltEntry = true
	return l
}

// EhGlobal informa a ligação resolvida
func (l *Label) EhGlobal() bool { return l.global || l.externo }

// AlinhamentoExplicito retorna o maior alinhamento pedido por AlignedTo, ou
// zero se nenhum foi pedido
func (l *Label) AlinhamentoExplicito() int {
	if len(l.alinhamentos) == 0 {
		return 0
	}
	return lo.Max(l.alinhamentos)
}

// Simbolo é o nome com a decoração do alvo
func (l *Label) Simbolo(cfg *target.Config) string {
	switch {
	case l.EhGlobal():
		return cfg.SymbolName(l.nome)
	case l.noArquivo:
		return cfg.LocalLabelName(l.nome)
	default:
		return l.nome
	}
}

// Ref usa o rótulo como operando
func (l *Label) Ref(cfg *target.Config) emit.Node {
	return emit.Operand(l.Simbolo(cfg))
}

// Render expande o rótulo em diretivas. primeiro indica que nenhum rótulo o
// precede na seção; nesse caso nunca sai .alt_entry.
func (l *Label) Render(cfg *target.Config, primeiro bool) emit.Node {
	simbolo := l.Simbolo(cfg)
	linhas := []string{cfg.TextSection()}

	if bytes := l.AlinhamentoExplicito(); bytes > 0 {
		linhas = append(linhas, cfg.AlignTrap(bytes)...)
	} else if l.alinhado {
		linhas = append(linhas, cfg.DefaultAlign())
	}

	if cfg.SupportsAltEntry() && !primeiro && !l.semAltEntry {
		linhas = append(linhas, cfg.AltEntryDirective(simbolo))
	}

	if l.EhGlobal() {
		linhas = append(linhas, ".globl "+simbolo)
		if atributo := cfg.ArchAttribute(); atributo != "" {
			linhas = append(linhas, atributo)
		}
		if !l.externo {
			if oculto := cfg.HideDirective(simbolo); oculto != "" {
				linhas = append(linhas, oculto)
			}
		}
		linhas = append(linhas, cfg.ThumbDirectives(simbolo)...)
	}

	linhas = append(linhas, simbolo+":")
	return emit.Lines(linhas...)
}
