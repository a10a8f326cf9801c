package instr

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// ARIDADE_VARIAVEL marca modelos que aceitam qualquer número de operandos
const ARIDADE_VARIAVEL = -1

// SUFIXO_LARGURA é o sufixo de largura usado por todas as instruções da tabela
const SUFIXO_LARGURA = "32"

// Modelo define como uma instrução é renderizada
type Modelo struct {
	Nome         string
	Mnemonico    string
	Sufixo       string
	Aridade      int  // ARIDADE_VARIAVEL para ilimitado
	Inalcancavel bool // invocar aborta a geração
	Descricao    string
}

// RegistroInstrucoes mantém a tabela nome -> modelo
type RegistroInstrucoes struct {
	modelos map[string]*Modelo
}

// NovoRegistroInstrucoes cria um registro com a tabela padrão
func NovoRegistroInstrucoes() *RegistroInstrucoes {
	registro := &RegistroInstrucoes{
		modelos: make(map[string]*Modelo),
	}

	registro.registrarInstrucoesBasicas()

	return registro
}

// Tabela padrão: adicionar uma instrução é adicionar uma linha aqui.
var modelosPadroes = []Modelo{
	{Nome: "addp", Mnemonico: "add", Aridade: ARIDADE_VARIAVEL, Descricao: "soma de ponteiros"},
	{Nome: "push", Mnemonico: "push", Aridade: ARIDADE_VARIAVEL, Descricao: "empilha registradores"},
	{Nome: "error", Inalcancavel: true, Descricao: "caminho declarado inalcançável"},
	{Nome: "move", Mnemonico: "move", Aridade: 2, Descricao: "copia registrador ou imediato"},
	{Nome: "pop", Mnemonico: "pop", Aridade: ARIDADE_VARIAVEL, Descricao: "desempilha registradores"},
	{Nome: "subp", Mnemonico: "sub", Aridade: ARIDADE_VARIAVEL, Descricao: "subtração de ponteiros"},
	{Nome: "storepairq", Mnemonico: "storepairq", Aridade: 3, Descricao: "grava par de quadwords"},
	{Nome: "storeq", Mnemonico: "storeq", Aridade: 2, Descricao: "grava quadword"},
	{Nome: "loadpairq", Mnemonico: "loadpairq", Aridade: 3, Descricao: "carrega par de quadwords"},
	{Nome: "loadq", Mnemonico: "loadq", Aridade: 2, Descricao: "carrega quadword"},
	{Nome: "break", Mnemonico: "brk", Aridade: 0, Descricao: "ponto de parada"},
	{Nome: "jmp", Mnemonico: "jmp", Aridade: 1, Descricao: "salto incondicional"},
	{Nome: "ret", Mnemonico: "ret", Aridade: 0, Descricao: "retorno"},
	{Nome: "call", Mnemonico: "call", Aridade: 1, Descricao: "chamada"},
	{Nome: "bpeq", Mnemonico: "bpeq", Aridade: 3, Descricao: "desvia se ponteiros iguais"},
}

// registrarInstrucoesBasicas copia a tabela padrão para o registro
func (r *RegistroInstrucoes) registrarInstrucoesBasicas() {
	for _, modelo := range modelosPadroes {
		if modelo.Sufixo == "" && !modelo.Inalcancavel {
			modelo.Sufixo = SUFIXO_LARGURA
		}
		r.Registrar(modelo)
	}
}

// Registrar adiciona ou substitui um modelo
func (r *RegistroInstrucoes) Registrar(modelo Modelo) {
	copia := modelo
	r.modelos[modelo.Nome] = &copia
}

// ObterModelo retorna o modelo de uma instrução
func (r *RegistroInstrucoes) ObterModelo(nome string) (Modelo, bool) {
	modelo, ok := r.modelos[nome]
	if !ok {
		return Modelo{}, false
	}
	return *modelo, true
}

// EhInstrucao verifica se um nome está na tabela
func (r *RegistroInstrucoes) EhInstrucao(nome string) bool {
	_, existe := r.modelos[nome]
	return existe
}

// ListarInstrucoes retorna os nomes em ordem alfabética
func (r *RegistroInstrucoes) ListarInstrucoes() []string {
	nomes := lo.Keys(r.modelos)
	sort.Strings(nomes)
	return nomes
}

// ValidarAridade confere o número de operandos contra o modelo. A renderização
// não chama isto; é um auxílio para quem compõe instruções.
func (r *RegistroInstrucoes) ValidarAridade(nome string, numOperandos int) error {
	modelo, ok := r.modelos[nome]
	if !ok {
		return fmt.Errorf("instrução '%s' não encontrada", nome)
	}
	if modelo.Aridade != ARIDADE_VARIAVEL && modelo.Aridade != numOperandos {
		return fmt.Errorf("instrução '%s' espera %d operandos, recebeu %d",
			nome, modelo.Aridade, numOperandos)
	}
	return nil
}

// Instância global do registro
var RegistroGlobal = NovoRegistroInstrucoes()
