package debug

import (
	"fmt"
	"io"
	"os"
)

var Enabled bool = false

// Saida recebe as mensagens de depuração; stderr para não misturar com o
// assembly gerado em stdout.
var Saida io.Writer = os.Stderr

func Printf(format string, args ...interface{}) {
	if Enabled {
		fmt.Fprintf(Saida, format, args...)
	}
}

func Println(args ...interface{}) {
	if Enabled {
		fmt.Fprintln(Saida, args...)
	}
}

func Print(args ...interface{}) {
	if Enabled {
		fmt.Fprint(Saida, args...)
	}
}
