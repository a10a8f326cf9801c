package target

// perfilARMv7 gera Thumb-2. Só quatro argumentos vão em registrador.
var perfilARMv7 = &perfilArquitetura{
	nome: "ARMv7",
	registradores: montarRegistradores(map[string]string{
		"t0": "r0", "t1": "r1", "t2": "r2", "t3": "r3", "t4": "r4",
		"t5": "r5", "t6": "r6", "t7": "r8", "t8": "r9",
		"cfr": "r7", "sp": "sp", "lr": "lr",
		"csr0": "r10", "csr1": "r11",
		"ws0": "r12",
	}, apelidosComuns(4)),
	espacador:       "bkpt #0",
	diretivaTrap:    ".balignw",
	padraoTrap:      "0xde00",
	deslocamentoMin: -4095,
	deslocamentoMax: 4095,
	thumb:           true,
}
