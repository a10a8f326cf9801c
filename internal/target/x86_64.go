package target

import "math"

// perfilX86_64 segue a convenção System V: argumentos em rdi, rsi, rdx,
// rcx, r8 e r9, e não há registrador de retorno de endereço.
var perfilX86_64 = &perfilArquitetura{
	nome: "x86_64",
	registradores: montarRegistradores(map[string]string{
		"t0": "rax", "t1": "rsi", "t2": "rdx", "t3": "rcx", "t4": "r8",
		"t5": "r10", "t6": "rdi", "t7": "r9", "t8": "r11",
		"cfr": "rbp", "sp": "rsp",
		"csr0": "rbx", "csr1": "r12", "csr2": "r13", "csr3": "r14", "csr4": "r15",
		"a0": "rdi", "a1": "rsi", "a2": "rdx", "a3": "rcx", "a4": "r8", "a5": "r9",
		"wa0": "rdi", "wa1": "rsi", "wa2": "rdx", "wa3": "rcx", "wa4": "r8", "wa5": "r9",
		"r0": "rax", "r1": "rdx",
		"ws0": "r9", "ws1": "r10", "ws2": "r11",
	}, nil),
	espacador:       "int3",
	diretivaTrap:    ".balign",
	padraoTrap:      "0xcc",
	deslocamentoMin: math.MinInt32,
	deslocamentoMax: math.MaxInt32,
}
