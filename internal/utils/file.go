package utils

import (
	"io"
	"os"
	"path/filepath"
)

// LerArquivo lê um arquivo e retorna seu conteúdo
func LerArquivo(nomeArquivo string) (string, error) {
	bytesConteudo, err := os.ReadFile(nomeArquivo)
	if err != nil {
		return "", NovoErro("erro ao ler arquivo", 0, 0, err.Error())
	}
	return string(bytesConteudo), nil
}

// EscreverArquivo escreve conteúdo em um arquivo, criando o diretório se preciso
func EscreverArquivo(nomeArquivo string, conteudo string) error {
	diretorio := filepath.Dir(nomeArquivo)
	if err := os.MkdirAll(diretorio, 0755); err != nil {
		return NovoErro("erro ao criar diretório", 0, 0, err.Error())
	}

	if err := os.WriteFile(nomeArquivo, []byte(conteudo), 0644); err != nil {
		return NovoErro("erro ao escrever arquivo", 0, 0, err.Error())
	}

	return nil
}

// EscreverSaida grava em nomeArquivo ou, se vazio, em padrao.
func EscreverSaida(nomeArquivo string, conteudo string, padrao io.Writer) error {
	if nomeArquivo == "" || nomeArquivo == "-" {
		if _, err := io.WriteString(padrao, conteudo); err != nil {
			return NovoErro("erro ao escrever saída", 0, 0, err.Error())
		}
		return nil
	}
	return EscreverArquivo(nomeArquivo, conteudo)
}
