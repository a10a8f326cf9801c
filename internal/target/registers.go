package target

import "fmt"

// nomesLogicos é o modelo de registradores usado pelo gerador. Toda
// arquitetura responde por todos eles, mesmo que seja com "sem registrador".
var nomesLogicos = func() []string {
	nomes := []string{"cfr", "sp", "lr", "r0", "r1"}
	for i := 0; i <= 12; i++ {
		nomes = append(nomes, fmt.Sprintf("t%d", i))
	}
	for i := 0; i <= 10; i++ {
		nomes = append(nomes, fmt.Sprintf("csr%d", i))
	}
	for i := 0; i <= 3; i++ {
		nomes = append(nomes, fmt.Sprintf("ws%d", i))
	}
	for i := 0; i <= 7; i++ {
		nomes = append(nomes, fmt.Sprintf("a%d", i), fmt.Sprintf("wa%d", i))
	}
	return nomes
}()

// apelidosComuns liga retorno e os primeiros numArgs argumentos aos
// temporários; argumentos além disso ficam sem registrador.
func apelidosComuns(numArgs int) map[string]string {
	apelidos := map[string]string{"r0": "t0", "r1": "t1"}
	for i := 0; i < numArgs; i++ {
		apelidos[fmt.Sprintf("a%d", i)] = fmt.Sprintf("t%d", i)
		apelidos[fmt.Sprintf("wa%d", i)] = fmt.Sprintf("t%d", i)
	}
	return apelidos
}

// montarRegistradores completa a tabela: nomes ausentes ficam sem
// registrador e apelidos copiam o valor do nome apontado.
func montarRegistradores(base map[string]string, apelidos map[string]string) map[string]string {
	tabela := make(map[string]string, len(nomesLogicos))
	for _, nome := range nomesLogicos {
		tabela[nome] = ""
	}
	for nome, concreto := range base {
		if _, ok := tabela[nome]; !ok {
			panic("target: registrador lógico fora do modelo: " + nome)
		}
		tabela[nome] = concreto
	}
	for nome, alvo := range apelidos {
		tabela[nome] = base[alvo]
	}
	return tabela
}
