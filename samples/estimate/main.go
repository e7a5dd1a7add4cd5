package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/gomacro/program"
	"github.com/sarchlab/gomacro/timeline"
)

//go:embed batch.macro
var batchMacro string

func main() {
	prog, err := program.ParseString(batchMacro)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	engine := sim.NewSerialEngine()

	runner := timeline.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.KHz).
		WithPause(100).
		Build("Batch", prog)

	d, err := runner.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Printf("steps: %d\n", runner.Steps())
	fmt.Printf("waiting: %dms\n", runner.SleptMS())
	fmt.Printf("estimated duration: %s\n", d)

	atexit.Exit(0)
}
