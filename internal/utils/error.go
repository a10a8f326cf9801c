package utils

import (
	"fmt"
	"strings"
)

// CompilerError representa um erro recuperável com informações de posição
type CompilerError struct {
	Mensagem string // Mensagem de erro
	Linha    int    // Linha onde ocorreu o erro
	Coluna   int    // Coluna onde ocorreu o erro
	Detalhes string // Detalhes adicionais do erro
}

// Error implementa a interface error
func (e *CompilerError) Error() string {
	var builder strings.Builder
	builder.WriteString(e.Mensagem)
	if e.Linha > 0 {
		builder.WriteString(fmt.Sprintf(" em linha %d", e.Linha))
		if e.Coluna > 0 {
			builder.WriteString(fmt.Sprintf(", coluna %d", e.Coluna))
		}
	}
	if e.Detalhes != "" {
		builder.WriteString(" (")
		builder.WriteString(e.Detalhes)
		builder.WriteString(")")
	}
	return builder.String()
}

// NovoErro cria um novo erro recuperável
func NovoErro(mensagem string, linha, coluna int, detalhes string) *CompilerError {
	return &CompilerError{
		Mensagem: mensagem,
		Linha:    linha,
		Coluna:   coluna,
		Detalhes: detalhes,
	}
}

// ErroFatal indica um defeito estrutural no próprio gerador (escopo fora de
// ordem, instrução inalcançável, registrador sem resolução). Nunca é
// devolvido como valor de retorno: só viaja por Abortar.
type ErroFatal struct {
	Mensagem string
	Detalhes string
}

func (e *ErroFatal) Error() string {
	if e.Detalhes == "" {
		return "erro fatal: " + e.Mensagem
	}
	return fmt.Sprintf("erro fatal: %s (%s)", e.Mensagem, e.Detalhes)
}

// Abortar interrompe a geração imediatamente.
func Abortar(mensagem string, detalhes string) {
	panic(&ErroFatal{Mensagem: mensagem, Detalhes: detalhes})
}

// Abortarf é Abortar com formatação.
func Abortarf(formato string, args ...interface{}) {
	panic(&ErroFatal{Mensagem: fmt.Sprintf(formato, args...)})
}

// CapturarFatal executa fn e devolve o *ErroFatal que a abortou, se houver.
// Qualquer outro pânico continua subindo.
func CapturarFatal(fn func()) (fatal *ErroFatal) {
	defer func() {
		if r := recover(); r != nil {
			erro, ok := r.(*ErroFatal)
			if !ok {
				panic(r)
			}
			fatal = erro
		}
	}()
	fn()
	return nil
}
