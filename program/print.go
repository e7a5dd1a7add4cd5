package program

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintProgram writes the instruction listing of a program as a table.
func PrintProgram(w io.Writer, p *Program) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s (%d instructions)", p.Name, p.Len()))
	t.AppendHeader(table.Row{"#", "Line", "Kind", "Instruction"})

	for i, inst := range p.Insts {
		t.AppendRow(table.Row{i + 1, inst.Line, inst.Op.Name(), inst.Text})
	}

	t.Render()
}
