package script

import _ "embed"

// Trampolim é a geração de exemplo usada quando nenhum script é informado
//
//go:embed exemplos/trampolim.lua
var Trampolim string

const NOME_TRAMPOLIM = "trampolim.lua"
