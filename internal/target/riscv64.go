package target

var perfilRISCV64 = &perfilArquitetura{
	nome: "RISCV64",
	registradores: montarRegistradores(map[string]string{
		"t0": "a0", "t1": "a1", "t2": "a2", "t3": "a3", "t4": "a4",
		"t5": "a5", "t6": "a6", "t7": "a7",
		"t8": "t0", "t9": "t1", "t10": "t2", "t11": "t3", "t12": "t4",
		"cfr": "fp", "sp": "sp", "lr": "ra",
		"csr0": "s1", "csr1": "s2", "csr2": "s3", "csr3": "s4", "csr4": "s5",
		"csr5": "s6", "csr6": "s7", "csr7": "s8", "csr8": "s9", "csr9": "s10",
		"csr10": "s11", "ws0": "t5", "ws1": "t6",
	}, apelidosComuns(8)),
	espacador:       ".int 0xbadbeef0",
	diretivaTrap:    ".balignw",
	padraoTrap:      "0x9002",
	deslocamentoMin: -2048,
	deslocamentoMax: 2047,
	atributoArch:    `.attribute arch, "rv64gc"`,
}
