// Package script descreve gerações em Lua. As globais do prelude alimentam
// um generator.Gerador; abortos dentro delas atravessam a VM e voltam a ser
// abortos depois que o script para.
package script

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	lua "github.com/yuin/gopher-lua"

	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/generator"
	"github.com/khevencolino/offlineasm/internal/instr"
	"github.com/khevencolino/offlineasm/internal/label"
	"github.com/khevencolino/offlineasm/internal/utils"
)

// Interpretador executa scripts sobre um gerador
type Interpretador struct {
	L       *lua.LState
	gerador *generator.Gerador
	funcoes map[string]FuncaoPrelude
	fatal   *utils.ErroFatal
}

// NovoInterpretador cria a VM e publica o prelude. registro é a tabela que
// gera os atalhos de instrução; nil usa a global.
func NovoInterpretador(g *generator.Gerador, registro *instr.RegistroInstrucoes) *Interpretador {
	if registro == nil {
		registro = instr.RegistroGlobal
	}
	s := &Interpretador{
		L:       lua.NewState(),
		gerador: g,
		funcoes: make(map[string]FuncaoPrelude),
	}
	s.registrarTipos()
	s.blindarCapturas()
	s.registrar(s.prelude())
	s.registrar(s.atalhosInstrucao(registro))
	s.publicarAlvo()
	return s
}

// Fechar libera a VM
func (s *Interpretador) Fechar() { s.L.Close() }

// Interpretar roda o script. Erros de Lua voltam como *utils.CompilerError;
// um aborto do gerador é relançado como aborto.
func (s *Interpretador) Interpretar(fonte, nome string) error {
	fn, err := s.L.Load(strings.NewReader(fonte), nome)
	if err != nil {
		return converterErro(err)
	}

	s.L.Push(fn)
	err = s.L.PCall(0, lua.MultRet, nil)
	if fatal := s.fatal; fatal != nil {
		s.fatal = nil
		panic(fatal)
	}
	if err != nil {
		return converterErro(err)
	}
	return nil
}

// Executar é o atalho para um script único
func Executar(g *generator.Gerador, fonte, nome string) error {
	s := NovoInterpretador(g, nil)
	defer s.Fechar()
	return s.Interpretar(fonte, nome)
}

// capturarFatal roda fn guardando o aborto para relançar depois do script
// e o converte em erro de Lua para desempilhar a VM. Depois de um aborto
// nenhuma chamada faz trabalho: todas falham na entrada.
func (s *Interpretador) capturarFatal(L *lua.LState, fn lua.LGFunction) (n int) {
	if s.fatal != nil {
		L.RaiseError("%s", s.fatal.Error())
	}
	fatal := utils.CapturarFatal(func() { n = fn(L) })
	if fatal != nil {
		if s.fatal == nil {
			s.fatal = fatal
		}
		L.RaiseError("%s", fatal.Error())
	}
	return n
}

// blindarCapturas troca pcall e xpcall por versões que relançam um aborto
// registrado, para que o script não continue depois dele
func (s *Interpretador) blindarCapturas() {
	for _, nome := range []string{"pcall", "xpcall"} {
		original := s.L.GetGlobal(nome)
		s.L.SetGlobal(nome, s.L.NewFunction(func(L *lua.LState) int {
			topo := L.GetTop()
			L.Push(original)
			for i := 1; i <= topo; i++ {
				L.Push(L.Get(i))
			}
			L.Call(topo, lua.MultRet)
			if s.fatal != nil {
				L.RaiseError("%s", s.fatal.Error())
			}
			return L.GetTop() - topo
		}))
	}
}

// checarInteiro rejeita números fracionários em vez de truncá-los
func checarInteiro(L *lua.LState, idx int) int {
	numero := float64(L.CheckNumber(idx))
	if numero != math.Trunc(numero) {
		L.ArgError(idx, fmt.Sprintf("inteiro esperado, recebido %v", numero))
	}
	return int(numero)
}

func (s *Interpretador) registrarTipos() {
	operando := s.L.NewTypeMetatable(tipoOperando)
	s.L.SetField(operando, "__tostring", s.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(s.checarOperando(L, 1).Render()))
		return 1
	}))

	rotulo := s.L.NewTypeMetatable(tipoRotulo)
	metodos := map[string]func(*label.Label, *lua.LState){
		"global":     func(l *label.Label, _ *lua.LState) { l.Global() },
		"infile":     func(l *label.Label, _ *lua.LState) { l.InFile() },
		"extern":     func(l *label.Label, _ *lua.LState) { l.Extern() },
		"noaltentry": func(l *label.Label, _ *lua.LState) { l.NoAltEntry() },
		"aligned": func(l *label.Label, L *lua.LState) {
			if L.GetTop() >= 2 {
				l.AlignedTo(checarInteiro(L, 2))
				return
			}
			l.Aligned()
		},
		"emit": func(l *label.Label, _ *lua.LState) { s.gerador.Rotulo(l) },
	}
	tabela := s.L.NewTable()
	for nome, metodo := range metodos {
		metodo := metodo
		s.L.SetField(tabela, nome, s.L.NewFunction(func(L *lua.LState) int {
			return s.capturarFatal(L, func(L *lua.LState) int {
				ud := L.CheckUserData(1)
				metodo(s.checarRotulo(L, 1), L)
				L.Push(ud)
				return 1
			})
		}))
	}
	s.L.SetField(tabela, "ref", s.L.NewFunction(func(L *lua.LState) int {
		return s.capturarFatal(L, func(L *lua.LState) int {
			return s.empurrarOperando(L, s.checarRotulo(L, 1).Ref(s.gerador.Config()))
		})
	}))
	s.L.SetField(tabela, "name", s.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(s.checarRotulo(L, 1).Nome()))
		return 1
	}))
	s.L.SetField(rotulo, "__index", tabela)
}

// publicarAlvo expõe a tabela 'alvo' para scripts condicionais
func (s *Interpretador) publicarAlvo() {
	flags := s.gerador.Config().Flags()
	alvo := s.L.NewTable()
	s.L.SetField(alvo, "arch", lua.LString(flags.Arch))
	s.L.SetField(alvo, "os", lua.LString(flags.OS))
	s.L.SetField(alvo, "compiler", lua.LString(flags.Compilador))
	s.L.SetField(alvo, "altentry", lua.LBool(s.gerador.Config().SupportsAltEntry()))
	s.L.SetGlobal("alvo", alvo)
}

func (s *Interpretador) empurrarOperando(L *lua.LState, no emit.Node) int {
	ud := L.NewUserData()
	ud.Value = no
	L.SetMetatable(ud, L.GetTypeMetatable(tipoOperando))
	L.Push(ud)
	return 1
}

func (s *Interpretador) empurrarRotulo(L *lua.LState, l *label.Label) int {
	ud := L.NewUserData()
	ud.Value = l
	L.SetMetatable(ud, L.GetTypeMetatable(tipoRotulo))
	L.Push(ud)
	return 1
}

func (s *Interpretador) checarOperando(L *lua.LState, idx int) emit.Node {
	if no, ok := L.CheckUserData(idx).Value.(emit.Node); ok {
		return no
	}
	L.ArgError(idx, "operando esperado")
	return emit.Node{}
}

func (s *Interpretador) checarRotulo(L *lua.LState, idx int) *label.Label {
	if l, ok := L.CheckUserData(idx).Value.(*label.Label); ok {
		return l
	}
	L.ArgError(idx, "rótulo esperado")
	return nil
}

// operando aceita userdata de operando ou rótulo, número (imediato) ou
// string (nome)
func (s *Interpretador) operando(L *lua.LState, idx int) emit.Node {
	switch valor := L.Get(idx).(type) {
	case *lua.LUserData:
		if l, ok := valor.Value.(*label.Label); ok {
			return l.Ref(s.gerador.Config())
		}
		return s.checarOperando(L, idx)
	case lua.LNumber:
		return instr.Immediate(checarInteiro(L, idx))
	case lua.LString:
		return emit.Operand(string(valor))
	default:
		L.ArgError(idx, "operando, número ou string esperado, recebido "+valor.Type().String())
		return emit.Node{}
	}
}

func (s *Interpretador) operandos(L *lua.LState, inicio int) []emit.Node {
	if L.GetTop() < inicio {
		return nil
	}
	return lo.Map(lo.Range(L.GetTop()-inicio+1), func(i int, _ int) emit.Node {
		return s.operando(L, inicio+i)
	})
}

var padraoLinha = regexp.MustCompile(`:(\d+):|line:(\d+)`)

// converterErro traz a mensagem de Lua para o erro do compilador, com a
// linha quando a VM informa uma
func converterErro(err error) error {
	mensagem := err.Error()
	if apiErr, ok := err.(*lua.ApiError); ok && apiErr.Object != nil {
		mensagem = apiErr.Object.String()
	}

	linha := 0
	if m := padraoLinha.FindStringSubmatch(mensagem); m != nil {
		linha, _ = strconv.Atoi(lo.Ternary(m[1] != "", m[1], m[2]))
	}
	return utils.NovoErro(mensagem, linha, 0, "")
}
