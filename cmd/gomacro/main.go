// Command gomacro runs GUI-automation macros.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/gomacro/cmd/gomacro/cmd"
)

func main() {
	atexit.Exit(cmd.Execute())
}
