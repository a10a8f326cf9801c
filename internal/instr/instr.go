// Package instr expande nomes de instrução em árvores de emissão a partir de
// uma tabela declarativa de modelos.
package instr

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/utils"
)

// Instruction expande nome + operandos usando o registro global.
func Instruction(nome string, operandos ...emit.Node) emit.Node {
	return RegistroGlobal.Instrucao(nome, operandos...)
}

// Instrucao expande uma instrução: tabulação, mnemônico com sufixo, operandos
// separados por vírgula na ordem recebida e nova linha. Nome desconhecido e a
// instrução inalcançável abortam a geração.
func (r *RegistroInstrucoes) Instrucao(nome string, operandos ...emit.Node) emit.Node {
	modelo, ok := r.modelos[nome]
	if !ok {
		utils.Abortar("instrução desconhecida", nome)
	}
	if modelo.Inalcancavel {
		utils.Abortar("instrução inalcançável alcançada", nome)
	}

	partes := []emit.Node{emit.Literal("\t" + modelo.Mnemonico + modelo.Sufixo)}
	partes = append(partes, lo.FlatMap(operandos, func(op emit.Node, i int) []emit.Node {
		separador := lo.Ternary(i == 0, " ", ", ")
		return []emit.Node{emit.Literal(separador), op}
	})...)
	partes = append(partes, emit.Literal("\n"))

	return emit.Seq(partes...)
}

// Address compõe base e deslocamento no formato base(deslocamento). O
// deslocamento não é validado; isso fica para o montador.
func Address(base emit.Node, deslocamento int) emit.Node {
	return emit.Seq(base, emit.Literal("("+strconv.Itoa(deslocamento)+")"))
}

// Immediate cria um operando imediato decimal.
func Immediate(valor int) emit.Node {
	return emit.Operand(strconv.Itoa(valor))
}
