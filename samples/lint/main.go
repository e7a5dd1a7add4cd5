package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/gomacro/program"
	"github.com/sarchlab/gomacro/verify"
)

//go:embed broken.macro
var brokenMacro string

func main() {
	prog, err := program.ParseString(brokenMacro)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	for _, issue := range verify.RunLint(prog) {
		fmt.Println(issue)
	}

	report := verify.GenerateReport(prog, 1000)
	report.WriteReport(os.Stdout)

	if !report.Passed() {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
