package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/khevencolino/offlineasm/internal/debug"
	"github.com/khevencolino/offlineasm/internal/emit"
	"github.com/khevencolino/offlineasm/internal/generator"
	"github.com/khevencolino/offlineasm/internal/instr"
	"github.com/khevencolino/offlineasm/internal/script"
	"github.com/khevencolino/offlineasm/internal/target"
	"github.com/khevencolino/offlineasm/internal/utils"
)

// argumentos é o resultado da leitura da linha de comando
type argumentos struct {
	arquivoEntrada string
	arquivoSaida   string
	flags          target.Flags
	semMarcadores  bool
	arvore         bool
	debug          bool
	ajuda          bool
}

func main() {
	args, err := processarArgumentos(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(2)
	}

	if args.ajuda {
		mostrarAjuda(os.Stdout)
		return
	}

	if err := executar(args, os.Stdout, os.Stderr); err != nil {
		var fatal *utils.ErroFatal
		if errors.As(err, &fatal) {
			fmt.Fprintf(os.Stderr, "Geração abortada: %v\n", fatal)
		} else {
			fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		}
		os.Exit(1)
	}
}

func processarArgumentos(argv []string) (argumentos, error) {
	conjunto := flag.NewFlagSet("offlineasm", flag.ContinueOnError)
	conjunto.SetOutput(io.Discard)

	// Define flags
	triple := conjunto.String("target", "", "Alvo no formato arch-os[-compilador] (ex.: arm64-darwin-clang)")
	arch := conjunto.String("arch", "arm64", "Arquitetura (arm64, arm64e, armv7, x86_64, riscv64)")
	sistema := conjunto.String("os", "linux", "Sistema operacional (linux, darwin, windows)")
	compilador := conjunto.String("compiler", "clang", "Compilador (clang, gcc, msvc)")
	altEntry := conjunto.Bool("alt-entry", false, "Emitir .alt_entry quando o conjunto de ferramentas suporta")
	estrito := conjunto.Bool("strict", false, "Abortar em registradores sem correspondente na arquitetura")
	semMarcadores := conjunto.Bool("no-markers", false, "Não cercar o código com os rótulos de início e fim")
	saida := conjunto.String("o", "-", "Arquivo de saída (- para stdout)")
	arvore := conjunto.Bool("arvore", false, "Desenhar a árvore de emissão no stderr")
	debugFlag := conjunto.Bool("debug", false, "Ativar mensagens de debug")
	help := conjunto.Bool("help", false, "Mostra ajuda")

	// Parse flags
	if err := conjunto.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return argumentos{ajuda: true}, nil
		}
		return argumentos{}, err
	}

	// Verifica se help foi solicitado
	if *help {
		return argumentos{ajuda: true}, nil
	}

	var flags target.Flags
	if *triple != "" {
		var err error
		if flags, err = target.ParseTriple(*triple); err != nil {
			return argumentos{}, err
		}
	} else {
		var err error
		if flags.Arch, err = target.NormalizarArch(*arch); err != nil {
			return argumentos{}, err
		}
		if flags.OS, err = target.NormalizarOS(*sistema); err != nil {
			return argumentos{}, err
		}
		if flags.Compilador, err = target.NormalizarCompilador(*compilador); err != nil {
			return argumentos{}, err
		}
	}
	flags.AltEntry = *altEntry
	flags.RegistradoresEstritos = *estrito

	if conjunto.NArg() > 1 {
		return argumentos{}, fmt.Errorf("apenas um script de entrada é aceito, recebidos %d", conjunto.NArg())
	}

	return argumentos{
		arquivoEntrada: conjunto.Arg(0),
		arquivoSaida:   *saida,
		flags:          flags,
		semMarcadores:  *semMarcadores,
		arvore:         *arvore,
		debug:          *debugFlag,
	}, nil
}

// executar roda uma geração e só escreve a saída se ela terminar sem erro
func executar(args argumentos, stdout, stderr io.Writer) error {
	debug.Enabled = args.debug
	debug.Saida = stderr

	cfg, err := target.New(args.flags)
	if err != nil {
		return err
	}

	fonte, nome := script.Trampolim, script.NOME_TRAMPOLIM
	if args.arquivoEntrada != "" {
		if fonte, err = utils.LerArquivo(args.arquivoEntrada); err != nil {
			return err
		}
		nome = args.arquivoEntrada
	}

	progresso(stderr, "⚙️  Gerando %s para %s...\n", nome, cfg.Nome())

	opcoes := generator.OpcoesPadrao()
	opcoes.Marcadores = !args.semMarcadores
	arvore, err := generator.Executar(cfg, opcoes, func(g *generator.Gerador) error {
		return script.Executar(g, fonte, nome)
	})
	if err != nil {
		return err
	}

	if args.arvore {
		emit.NovoVisualizador().ImprimirArvore(stderr, arvore)
	}

	if err := utils.EscreverSaida(args.arquivoSaida, arvore.Render(), stdout); err != nil {
		return err
	}
	if args.arquivoSaida != "-" && args.arquivoSaida != "" {
		progresso(stderr, "✅ Arquivo assembly criado: %s\n", args.arquivoSaida)
	}
	return nil
}

// progresso só fala com um terminal, para não sujar logs e pipelines
func progresso(stderr io.Writer, formato string, args ...interface{}) {
	if arquivo, ok := stderr.(*os.File); ok && term.IsTerminal(int(arquivo.Fd())) {
		fmt.Fprintf(stderr, formato, args...)
	}
}

func mostrarAjuda(w io.Writer) {
	fmt.Fprintf(w, `offlineasm - Gerador de assembly multi-arquitetura

USO:
    offlineasm [flags] [script.lua]

Sem script, gera o trampolim de exemplo embutido.

FLAGS:
    -target=<arch-os[-comp]>  Alvo completo (ex.: arm64-darwin-clang)
    -arch=<arquitetura>       Arquitetura (padrão: arm64)
    -os=<sistema>             Sistema operacional (padrão: linux)
    -compiler=<compilador>    Compilador (padrão: clang)
    -alt-entry                Emitir .alt_entry (clang em darwin)
    -strict                   Abortar em registradores sem correspondente
    -no-markers               Não emitir offlineasm_begin/offlineasm_end
    -o=<arquivo>              Arquivo de saída (padrão: stdout)
    -arvore                   Desenhar a árvore de emissão no stderr
    -debug                    Ativar mensagens de debug
    -help                     Mostra esta ajuda

ARQUITETURAS:
    arm64 (aarch64), arm64e, armv7 (thumb2), x86_64 (amd64), riscv64

INSTRUÇÕES:
    %s

EXEMPLOS:
    offlineasm -target=arm64-darwin-clang -alt-entry    # Trampolim de exemplo
    offlineasm -arch=x86_64 -os=linux gerador.lua       # Script próprio
    offlineasm -target=riscv64-linux-gcc -o llint.s     # Escreve em arquivo
`, strings.Join(instr.RegistroGlobal.ListarInstrucoes(), ", "))
}
