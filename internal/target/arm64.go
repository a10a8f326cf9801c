package target

// perfilARM64 serve arm64 e arm64e. csr10 não tem registrador nessa
// arquitetura; ws0..ws3 reaproveitam t9..t12.
var perfilARM64 = &perfilArquitetura{
	nome: "ARM64",
	registradores: montarRegistradores(map[string]string{
		"t0": "x0", "t1": "x1", "t2": "x2", "t3": "x3", "t4": "x4",
		"t5": "x5", "t6": "x6", "t7": "x7", "t8": "x8", "t9": "x9",
		"t10": "x10", "t11": "x11", "t12": "x12",
		"cfr": "x29", "sp": "sp", "lr": "lr",
		"csr0": "x19", "csr1": "x20", "csr2": "x21", "csr3": "x22", "csr4": "x23",
		"csr5": "x24", "csr6": "x25", "csr7": "x26", "csr8": "x27", "csr9": "x28",
		"ws0": "x9", "ws1": "x10", "ws2": "x11", "ws3": "x12",
	}, apelidosComuns(8)),
	espacador:       "brk #0xc471",
	diretivaTrap:    ".balignl",
	padraoTrap:      "0xd4388e20",
	deslocamentoMin: -256,
	deslocamentoMax: 32760,
}
