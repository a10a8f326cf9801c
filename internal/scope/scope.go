// Package scope coleta o código emitido em escopos aninhados. Só o topo da
// pilha recebe código; desempilhar fora de ordem aborta a geração.
package scope

import (
	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/utils"
)

// Estado do ciclo de vida de um escopo
type Estado int

const (
	Vazio Estado = iota
	Ativo
	Finalizado
)

func (e Estado) String() string {
	switch e {
	case Vazio:
		return "vazio"
	case Ativo:
		return "ativo"
	case Finalizado:
		return "finalizado"
	default:
		return "desconhecido"
	}
}

// Escopo é o identificador devolvido por Push
type Escopo struct {
	id     int
	estado Estado
	filhos []emit.Node
}

func (e *Escopo) Estado() Estado { return e.estado }

// Coletor é a pilha de escopos de uma geração. Não é seguro para uso
// concorrente; cada geração tem o seu.
type Coletor struct {
	pilha     []*Escopo
	proximoID int
}

// NovoColetor cria uma pilha vazia
func NovoColetor() *Coletor {
	return &Coletor{}
}

// Push cria um escopo e o torna o alvo atual
func (c *Coletor) Push() *Escopo {
	c.proximoID++
	escopo := &Escopo{id: c.proximoID, estado: Ativo}
	c.pilha = append(c.pilha, escopo)
	return escopo
}

// Add acrescenta código ao escopo do topo
func (c *Coletor) Add(no emit.Node) {
	topo := c.topo()
	if topo == nil {
		utils.Abortar("código adicionado sem escopo ativo", no.Render())
	}
	topo.filhos = append(topo.filhos, no)
}

// Pop fecha o escopo do topo. O conteúdo dele passa para o novo topo, de
// modo que o escopo externo enxerga o código interno na ordem de inserção.
func (c *Coletor) Pop(escopo *Escopo) {
	if escopo == nil {
		utils.Abortar("pop de escopo nulo", "")
	}
	topo := c.topo()
	if topo == nil {
		utils.Abortarf("pop do escopo %d com a pilha vazia", escopo.id)
	}
	if topo != escopo {
		utils.Abortarf("pop fora de ordem: escopo %d pedido, topo é %d", escopo.id, topo.id)
	}

	c.pilha = c.pilha[:len(c.pilha)-1]
	escopo.estado = Finalizado
	if pai := c.topo(); pai != nil {
		pai.filhos = append(pai.filhos, emit.Seq(escopo.filhos...))
	}
}

// Finalize devolve o código acumulado no escopo como uma sequência
func (c *Coletor) Finalize(escopo *Escopo) emit.Node {
	if escopo == nil || escopo.estado == Vazio {
		utils.Abortar("finalize de escopo que nunca foi empilhado", "")
	}
	return emit.Seq(escopo.filhos...)
}

// Coletar empilha um escopo, roda fn e desempilha na saída, inclusive
// quando fn aborta.
func (c *Coletor) Coletar(fn func()) emit.Node {
	escopo := c.Push()
	func() {
		defer c.Pop(escopo)
		fn()
	}()
	return c.Finalize(escopo)
}

// Profundidade é o número de escopos ativos
func (c *Coletor) Profundidade() int { return len(c.pilha) }

func (c *Coletor) topo() *Escopo {
	if len(c.pilha) == 0 {
		return nil
	}
	return c.pilha[len(c.pilha)-1]
}
