package emit

import (
	"fmt"
	"io"
	"strconv"

	"github.com/m1gwings/treedrawer/tree"
)

// VisualizadorArvore cria representações visuais de uma árvore de emissão
type VisualizadorArvore struct {
	// LimiteTexto corta literais longos no desenho (0 = sem limite)
	LimiteTexto int
}

// NovoVisualizador cria um novo visualizador
func NovoVisualizador() *VisualizadorArvore {
	return &VisualizadorArvore{LimiteTexto: 24}
}

// CriarArvore converte o nó para o formato do treedrawer
func (v *VisualizadorArvore) CriarArvore(no Node) *tree.Tree {
	arvore := tree.NewTree(tree.NodeString(v.rotulo(no)))
	v.adicionarFilhos(arvore, no)
	return arvore
}

// ImprimirArvore escreve o desenho da árvore em w
func (v *VisualizadorArvore) ImprimirArvore(w io.Writer, no Node) {
	fmt.Fprintln(w, "=== Árvore de Emissão ===")
	fmt.Fprintln(w, v.CriarArvore(no).String())
	fmt.Fprintln(w)
}

// adicionarFilhos percorre a sequência adicionando cada filho recursivamente
func (v *VisualizadorArvore) adicionarFilhos(destino *tree.Tree, no Node) {
	if no.kind != KindSequence {
		return
	}
	for _, filho := range no.children {
		novoFilho := destino.AddChild(tree.NodeString(v.rotulo(filho)))
		v.adicionarFilhos(novoFilho, filho)
	}
}

func (v *VisualizadorArvore) rotulo(no Node) string {
	switch no.kind {
	case KindLiteral:
		texto := no.text
		if v.LimiteTexto > 0 && len(texto) > v.LimiteTexto {
			texto = texto[:v.LimiteTexto] + "…"
		}
		return strconv.Quote(texto)
	case KindOperand:
		return no.text
	case KindSequence:
		return fmt.Sprintf("seq[%d]", len(no.children))
	default:
		return "?"
	}
}
