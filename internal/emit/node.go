package emit

import (
	"fmt"
	"strings"
)

// Kind define o tipo de um nó de emissão.
type Kind int

const (
	// KindLiteral é texto literal.
	KindLiteral Kind = iota
	// KindOperand é um operando nomeado (registrador, constante, endereço).
	KindOperand
	// KindSequence é uma sequência ordenada de nós.
	KindSequence
)

// String retorna representação em string do tipo
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindOperand:
		return "operando"
	case KindSequence:
		return "sequencia"
	default:
		return "?"
	}
}

const prefixoInvalido = "<invalid:"

// Node é um pedaço imutável de texto gerável.
type Node struct {
	kind     Kind
	text     string
	children []Node
}

// Literal cria um nó de texto que é renderizado sem alteração
func Literal(text string) Node {
	return Node{kind: KindLiteral, text: text}
}

// Operand cria um operando nomeado
func Operand(name string) Node {
	return Node{kind: KindOperand, text: name}
}

// Invalid é o operando sentinela para um registrador lógico sem registrador
// concreto na arquitetura. O texto começa com '<', que nenhum montador alvo
// aceita como início de operando.
func Invalid(logical string) Node {
	return Node{kind: KindOperand, text: prefixoInvalido + logical + ">"}
}

// Seq cria uma sequência; os filhos são copiados.
func Seq(children ...Node) Node {
	copia := make([]Node, len(children))
	copy(copia, children)
	return Node{kind: KindSequence, children: copia}
}

// Lines cria uma sequência de literais, cada um terminado em nova linha.
func Lines(lines ...string) Node {
	nos := make([]Node, 0, len(lines))
	for _, linha := range lines {
		nos = append(nos, Literal(linha+"\n"))
	}
	return Node{kind: KindSequence, children: nos}
}

// Kind retorna o tipo do nó
func (n Node) Kind() Kind { return n.kind }

// Text retorna o texto de um literal ou o nome de um operando
func (n Node) Text() string { return n.text }

// Children retorna uma cópia dos filhos de uma sequência
func (n Node) Children() []Node {
	copia := make([]Node, len(n.children))
	copy(copia, n.children)
	return copia
}

// IsInvalid informa se o nó é o operando sentinela de registrador inválido
func (n Node) IsInvalid() bool {
	return n.kind == KindOperand && strings.HasPrefix(n.text, prefixoInvalido)
}

// Render gera o texto do nó. Sequências não inserem separadores.
func (n Node) Render() string {
	var builder strings.Builder
	n.renderizar(&builder)
	return builder.String()
}

func (n Node) renderizar(builder *strings.Builder) {
	switch n.kind {
	case KindLiteral, KindOperand:
		builder.WriteString(n.text)
	case KindSequence:
		for _, filho := range n.children {
			filho.renderizar(builder)
		}
	default:
		panic(fmt.Sprintf("emit: tipo de nó desconhecido %d", n.kind))
	}
}

// Equal compara dois nós estruturalmente. Operandos são iguais quando têm o
// mesmo nome.
func (n Node) Equal(outro Node) bool {
	if n.kind != outro.kind || n.text != outro.text || len(n.children) != len(outro.children) {
		return false
	}
	for i := range n.children {
		if !n.children[i].Equal(outro.children[i]) {
			return false
		}
	}
	return true
}

// String implementa fmt.Stringer
func (n Node) String() string {
	return n.Render()
}
