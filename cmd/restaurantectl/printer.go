package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printer salida con color (respeta color.NoColor).
type printer struct {
	out     io.Writer
	ok      *color.Color
	warn    *color.Color
	key     *color.Color
	heading *color.Color
}

func newPrinter(out io.Writer) *printer {
	return &printer{
		out:     out,
		ok:      color.New(color.FgGreen, color.Bold),
		warn:    color.New(color.FgYellow),
		key:     color.New(color.FgCyan),
		heading: color.New(color.Bold),
	}
}

func (p *printer) Success(format string, a ...any) {
	p.ok.Fprint(p.out, "✓ ")
	fmt.Fprintf(p.out, format+"\n", a...)
}

func (p *printer) Warning(format string, a ...any) {
	p.warn.Fprintf(p.out, "! "+format+"\n", a...)
}

func (p *printer) Header(s string) {
	p.heading.Fprintln(p.out, s)
}

// Field línea "clave: valor"; valores vacíos se muestran como "-".
func (p *printer) Field(k, v string) {
	if v == "" {
		v = "-"
	}
	p.key.Fprintf(p.out, "  %-12s", k+":")
	fmt.Fprintln(p.out, v)
}
