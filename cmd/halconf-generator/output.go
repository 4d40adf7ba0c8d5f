package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

func printf(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, format+"\n", a...)
}

func warningf(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, color.YellowString("Warning: ")+format+"\n", a...)
}

func errorf(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, color.RedString("Error: ")+format+"\n", a...)
}

func successf(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, color.GreenString(format)+"\n", a...)
}

func newTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))

	return t
}
