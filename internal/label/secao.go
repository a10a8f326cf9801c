package label

import (
	"github.com/samber/lo"

	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/target"
)

// Secao lembra se a seção de texto já recebeu um rótulo, para que só o
// primeiro saia sem entrada alternativa.
type Secao struct {
	emitidos []string
}

// Emitir renderiza o rótulo na posição atual da seção
func (s *Secao) Emitir(cfg *target.Config, l *Label) emit.Node {
	no := l.Render(cfg, len(s.emitidos) == 0)
	s.emitidos = append(s.emitidos, l.Simbolo(cfg))
	return no
}

// Emitidos lista os símbolos na ordem em que saíram
func (s *Secao) Emitidos() []string {
	return append([]string(nil), s.emitidos...)
}

// RenderizarTodos renderiza um lote de rótulos numa seção nova
func RenderizarTodos(cfg *target.Config, rotulos ...*Label) emit.Node {
	var secao Secao
	return emit.Seq(lo.Map(rotulos, func(l *Label, _ int) emit.Node {
		return secao.Emitir(cfg, l)
	})...)
}
