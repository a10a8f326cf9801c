// Package target guarda a configuração fixa de um alvo de geração: tabela de
// registradores lógicos -> concretos e as escolhas de formato de diretivas
// por arquitetura, sistema operacional e compilador.
package target

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/khevencolino/offlineasm/internal/debug"
	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/utils"
)

// Arch identifica a família de CPU
type Arch string

const (
	ARM64   Arch = "arm64"
	ARM64E  Arch = "arm64e"
	ARMv7   Arch = "armv7" // Thumb-2
	X86_64  Arch = "x86_64"
	RISCV64 Arch = "riscv64"
)

// OS identifica a família de sistema operacional
type OS string

const (
	Linux   OS = "linux"
	Darwin  OS = "darwin"
	Windows OS = "windows"
)

// Compilador identifica a família do compilador/montador
type Compilador string

const (
	Clang Compilador = "clang"
	GCC   Compilador = "gcc"
	MSVC  Compilador = "msvc"
)

// Flags é a superfície de configuração, resolvida uma vez antes da geração
type Flags struct {
	Arch       Arch
	OS         OS
	Compilador Compilador
	// AltEntry habilita diretivas .alt_entry quando o conjunto de ferramentas suporta
	AltEntry bool
	// RegistradoresEstritos faz registradores sem correspondente abortarem em vez
	// de virarem o sentinela inválido
	RegistradoresEstritos bool
}

// Config é a configuração somente-leitura de um alvo
type Config struct {
	flags  Flags
	perfil *perfilArquitetura
}

// perfilArquitetura concentra as constantes de uma arquitetura
type perfilArquitetura struct {
	nome            string
	registradores   map[string]string // "" = sem registrador concreto
	espacador       string            // instrução de parada usada como espaçador
	diretivaTrap    string            // diretiva de alinhamento com preenchimento
	padraoTrap      string            // padrão que faz o preenchimento parar a execução
	deslocamentoMin int
	deslocamentoMax int
	atributoArch    string
	thumb           bool
}

const alinhamentoPadrao = 4

// NormalizarArch aceita os apelidos comuns de cada arquitetura
func NormalizarArch(nome string) (Arch, error) {
	switch strings.ToLower(nome) {
	case "arm64", "aarch64":
		return ARM64, nil
	case "arm64e":
		return ARM64E, nil
	case "armv7", "arm", "thumb2":
		return ARMv7, nil
	case "x86_64", "amd64", "x64":
		return X86_64, nil
	case "riscv64", "rv64":
		return RISCV64, nil
	default:
		return "", fmt.Errorf("arquitetura não suportada: %s", nome)
	}
}

// NormalizarOS aceita os apelidos comuns de cada sistema
func NormalizarOS(nome string) (OS, error) {
	switch strings.ToLower(nome) {
	case "linux":
		return Linux, nil
	case "darwin", "macos", "ios":
		return Darwin, nil
	case "windows", "win":
		return Windows, nil
	default:
		return "", fmt.Errorf("sistema operacional não suportado: %s", nome)
	}
}

// NormalizarCompilador aceita os apelidos comuns de cada compilador
func NormalizarCompilador(nome string) (Compilador, error) {
	switch strings.ToLower(nome) {
	case "clang", "llvm":
		return Clang, nil
	case "gcc", "gnu":
		return GCC, nil
	case "msvc", "cl":
		return MSVC, nil
	default:
		return "", fmt.Errorf("compilador não suportado: %s", nome)
	}
}

// ParseTriple lê "arch-os-compilador" (ex.: "arm64-darwin-clang"). O
// compilador é opcional e vale clang por padrão.
func ParseTriple(triple string) (Flags, error) {
	partes := strings.Split(triple, "-")
	if len(partes) < 2 || len(partes) > 3 {
		return Flags{}, fmt.Errorf("alvo inválido '%s': esperado arch-os[-compilador]", triple)
	}

	arch, err := NormalizarArch(partes[0])
	if err != nil {
		return Flags{}, err
	}
	sistema, err := NormalizarOS(partes[1])
	if err != nil {
		return Flags{}, err
	}
	compilador := Clang
	if len(partes) == 3 {
		if compilador, err = NormalizarCompilador(partes[2]); err != nil {
			return Flags{}, err
		}
	}

	return Flags{Arch: arch, OS: sistema, Compilador: compilador}, nil
}

// New valida as flags e monta a configuração
func New(flags Flags) (*Config, error) {
	var perfil *perfilArquitetura
	switch flags.Arch {
	case ARM64, ARM64E:
		perfil = perfilARM64
	case X86_64:
		perfil = perfilX86_64
	case ARMv7:
		perfil = perfilARMv7
	case RISCV64:
		perfil = perfilRISCV64
	default:
		return nil, fmt.Errorf("arquitetura não suportada: '%s'", flags.Arch)
	}

	switch flags.OS {
	case Linux, Darwin, Windows:
	default:
		return nil, fmt.Errorf("sistema operacional não suportado: '%s'", flags.OS)
	}

	switch flags.Compilador {
	case Clang, GCC, MSVC:
	default:
		return nil, fmt.Errorf("compilador não suportado: '%s'", flags.Compilador)
	}

	if flags.Arch == ARM64E && flags.OS != Darwin {
		return nil, fmt.Errorf("arm64e só existe em darwin, alvo pedido: %s", flags.OS)
	}
	if flags.Compilador == MSVC && flags.OS != Windows {
		return nil, fmt.Errorf("msvc só existe em windows, alvo pedido: %s", flags.OS)
	}

	cfg := &Config{flags: flags, perfil: perfil}
	if flags.AltEntry && !cfg.SupportsAltEntry() {
		debug.Printf("alt entry pedido mas não suportado em %s; ignorado\n", cfg.Nome())
	}
	return cfg, nil
}

// Flags retorna as flags que originaram a configuração
func (c *Config) Flags() Flags { return c.flags }

// Nome descreve o alvo
func (c *Config) Nome() string {
	return fmt.Sprintf("Assembly %s (%s, %s)", c.flags.Arch, c.flags.OS, c.flags.Compilador)
}

// Extensao é a extensão do arquivo gerado
func (c *Config) Extensao() string {
	if c.flags.Compilador == MSVC {
		return ".asm"
	}
	return ".s"
}

// TextSection retorna a diretiva de seção de código
func (c *Config) TextSection() string {
	if c.flags.OS == Darwin {
		return ".section __TEXT,__jsc_int,regular,pure_instructions"
	}
	return ".text"
}

// SymbolName aplica a decoração de símbolos global do formato objeto
func (c *Config) SymbolName(nome string) string {
	if c.flags.OS == Darwin {
		return "_" + nome
	}
	return nome
}

// LocalLabelName decora um rótulo que não deve chegar à tabela de símbolos
func (c *Config) LocalLabelName(nome string) string {
	if c.flags.OS == Darwin {
		return "L" + nome
	}
	return ".L" + nome
}

// HideDirective retorna a diretiva de visibilidade oculta, ou "" onde o
// formato objeto não tem uma
func (c *Config) HideDirective(simbolo string) string {
	switch c.flags.OS {
	case Darwin:
		return ".private_extern " + simbolo
	case Linux:
		return ".hidden " + simbolo
	default:
		return ""
	}
}

// SupportsAltEntry informa se o conjunto de ferramentas aceita .alt_entry
func (c *Config) SupportsAltEntry() bool {
	return c.flags.AltEntry && c.flags.Compilador == Clang && c.flags.OS == Darwin
}

// AltEntryDirective retorna a diretiva de entrada alternativa para o símbolo
func (c *Config) AltEntryDirective(simbolo string) string {
	return ".alt_entry " + simbolo
}

// Spacer é a instrução de parada da arquitetura
func (c *Config) Spacer() string { return c.perfil.espacador }

// DefaultAlign retorna a diretiva de alinhamento padrão
func (c *Config) DefaultAlign() string {
	return fmt.Sprintf(".balign %d", alinhamentoPadrao)
}

// AlignTrap retorna as linhas que alinham em n bytes preenchendo com
// instruções de parada
func (c *Config) AlignTrap(n int) []string {
	return []string{
		c.perfil.espacador,
		fmt.Sprintf("%s %d, %s", c.perfil.diretivaTrap, n, c.perfil.padraoTrap),
	}
}

// ArchAttribute retorna a linha de atributo de arquitetura, se houver
func (c *Config) ArchAttribute() string { return c.perfil.atributoArch }

// ThumbDirectives retorna as linhas Thumb-2 para um rótulo global
func (c *Config) ThumbDirectives(simbolo string) []string {
	if !c.perfil.thumb {
		return nil
	}
	parametro := ""
	if c.flags.OS == Darwin {
		parametro = " " + simbolo
	}
	return []string{".thumb", ".thumb_func" + parametro}
}

// DisplacementInRange informa se o deslocamento cabe na codificação de
// endereço da arquitetura
func (c *Config) DisplacementInRange(deslocamento int) bool {
	return deslocamento >= c.perfil.deslocamentoMin && deslocamento <= c.perfil.deslocamentoMax
}

// Resolve traduz um registrador lógico no operando concreto. Nome lógico
// desconhecido aborta; nome conhecido sem registrador na arquitetura vira o
// sentinela inválido (ou aborta em modo estrito).
func (c *Config) Resolve(logico string) emit.Node {
	concreto, conhecido := c.perfil.registradores[logico]
	if !conhecido {
		utils.Abortarf("registrador lógico desconhecido '%s'", logico)
	}
	if concreto == "" {
		if c.flags.RegistradoresEstritos {
			utils.Abortarf("registrador lógico '%s' não existe em %s", logico, c.perfil.nome)
		}
		debug.Printf("registrador lógico '%s' sem correspondente em %s\n", logico, c.perfil.nome)
		return emit.Invalid(logico)
	}
	return emit.Operand(concreto)
}

// RegistradoresLogicos lista os nomes lógicos em ordem alfabética
func (c *Config) RegistradoresLogicos() []string {
	nomes := lo.Keys(c.perfil.registradores)
	sort.Strings(nomes)
	return nomes
}
