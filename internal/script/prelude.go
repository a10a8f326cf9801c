package script

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	lua "github.com/yuin/gopher-lua"

	"github.com/khevencolino/offlineasm/internal/debug"
	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/instr"
	"github.com/khevencolino/offlineasm/internal/label"
)

const (
	tipoOperando = "operando"
	tipoRotulo   = "rotulo"
)

// FuncaoPrelude é uma global sempre disponível para o script
type FuncaoPrelude struct {
	Nome        string
	Implementar lua.LGFunction
	MinArgs     int
	MaxArgs     int // -1 para ilimitado
}

// palavrasReservadas não podem virar atalhos de instrução
var palavrasReservadas = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "if": true,
	"in": true, "local": true, "nil": true, "not": true, "or": true,
	"repeat": true, "return": true, "then": true, "true": true, "until": true,
	"while": true,
}

// prelude monta as globais ligadas ao gerador do interpretador
func (s *Interpretador) prelude() []FuncaoPrelude {
	return []FuncaoPrelude{
		{Nome: "reg", MinArgs: 1, MaxArgs: 1, Implementar: func(L *lua.LState) int {
			return s.empurrarOperando(L, s.gerador.Reg(L.CheckString(1)))
		}},
		{Nome: "op", MinArgs: 1, MaxArgs: 1, Implementar: func(L *lua.LState) int {
			return s.empurrarOperando(L, emit.Operand(L.CheckString(1)))
		}},
		{Nome: "imm", MinArgs: 1, MaxArgs: 1, Implementar: func(L *lua.LState) int {
			return s.empurrarOperando(L, s.gerador.Imediato(checarInteiro(L, 1)))
		}},
		{Nome: "addr", MinArgs: 2, MaxArgs: 2, Implementar: func(L *lua.LState) int {
			return s.empurrarOperando(L, s.gerador.Endereco(s.operando(L, 1), checarInteiro(L, 2)))
		}},
		{Nome: "text", MinArgs: 1, MaxArgs: 1, Implementar: func(L *lua.LState) int {
			s.gerador.Texto(L.CheckString(1))
			return 0
		}},
		{Nome: "instr", MinArgs: 1, MaxArgs: -1, Implementar: func(L *lua.LState) int {
			s.gerador.Instr(L.CheckString(1), s.operandos(L, 2)...)
			return 0
		}},
		{Nome: "label", MinArgs: 1, MaxArgs: 1, Implementar: func(L *lua.LState) int {
			return s.empurrarRotulo(L, label.New(L.CheckString(1)))
		}},
		{Nome: "block", MinArgs: 1, MaxArgs: 1, Implementar: func(L *lua.LState) int {
			corpo := L.CheckFunction(1)
			s.gerador.Bloco(func() {
				L.CallByParam(lua.P{Fn: corpo, NRet: 0, Protect: false})
			})
			return 0
		}},
		{Nome: "trace", MinArgs: 0, MaxArgs: -1, Implementar: func(L *lua.LState) int {
			partes := make([]interface{}, 0, L.GetTop())
			for i := 1; i <= L.GetTop(); i++ {
				partes = append(partes, L.Get(i).String())
			}
			debug.Println(partes...)
			return 0
		}},
	}
}

// atalhosInstrucao cria move(a, b), ret() etc. para cada linha da tabela
// cujo nome não colide com palavra reservada nem com global existente
func (s *Interpretador) atalhosInstrucao(registro *instr.RegistroInstrucoes) []FuncaoPrelude {
	var atalhos []FuncaoPrelude
	for _, nome := range registro.ListarInstrucoes() {
		if palavrasReservadas[nome] || s.L.GetGlobal(nome) != lua.LNil {
			debug.Printf("instrução '%s' sem atalho no script; use instr(\"%s\")\n", nome, nome)
			continue
		}
		nome := nome
		atalhos = append(atalhos, FuncaoPrelude{Nome: nome, MinArgs: 0, MaxArgs: -1, Implementar: func(L *lua.LState) int {
			s.gerador.Instr(nome, s.operandos(L, 1)...)
			return 0
		}})
	}
	return atalhos
}

// registrar publica as funções como globais, com checagem de aridade e
// captura de abortos
func (s *Interpretador) registrar(funcoes []FuncaoPrelude) {
	for _, fn := range funcoes {
		s.funcoes[fn.Nome] = fn
		s.L.SetGlobal(fn.Nome, s.L.NewFunction(s.protegido(fn)))
	}
}

func (s *Interpretador) protegido(fn FuncaoPrelude) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.GetTop()
		if n < fn.MinArgs || (fn.MaxArgs != -1 && n > fn.MaxArgs) {
			L.RaiseError("%s: esperados %s argumentos, recebidos %d", fn.Nome, faixa(fn), n)
		}
		return s.capturarFatal(L, fn.Implementar)
	}
}

func faixa(fn FuncaoPrelude) string {
	switch {
	case fn.MaxArgs == -1:
		return fmt.Sprintf("ao menos %d", fn.MinArgs)
	case fn.MinArgs == fn.MaxArgs:
		return fmt.Sprintf("%d", fn.MinArgs)
	default:
		return fmt.Sprintf("%d a %d", fn.MinArgs, fn.MaxArgs)
	}
}

// Funcoes lista as globais do prelude em ordem alfabética
func (s *Interpretador) Funcoes() []string {
	nomes := lo.Keys(s.funcoes)
	sort.Strings(nomes)
	return nomes
}

// ObterFuncaoPrelude retorna os metadados de uma global do prelude
func (s *Interpretador) ObterFuncaoPrelude(nome string) (FuncaoPrelude, bool) {
	fn, ok := s.funcoes[nome]
	return fn, ok
}
