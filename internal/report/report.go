// Package report renders problems, maxima, and trajectories for the
// terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/san-kum/odescale/internal/deq"
	"github.com/san-kum/odescale/internal/expr"
	"github.com/san-kum/odescale/internal/scale"
	"github.com/san-kum/odescale/internal/solve"
)

// ShowProblem prints a readable summary of a problem: the symbolic
// system, parameter bindings, the system with parameters substituted,
// initial values, span, and solver options.
func ShowProblem(w io.Writer, p *deq.Problem) {
	m := p.Model
	states := m.States()
	rhs := m.RHS()
	bound := m.Bound()

	fmt.Fprintln(w, headerStyle.Render("SYSTEM"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, s := range states {
		fmt.Fprintf(tw, "  %s'\t=\t%s\n", s, equationStyle.Render(rhs[i].String()))
	}
	tw.Flush()

	if params := m.Params(); len(params) > 0 {
		fmt.Fprintln(w, headerStyle.Render("\nPARAMETERS"))
		names := make([]string, 0, len(params))
		for k := range params {
			names = append(names, string(k))
		}
		sort.Strings(names)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, n := range names {
			fmt.Fprintf(tw, "  %s\t=\t%v\n", n, params[expr.Symbol(n)])
		}
		tw.Flush()

		fmt.Fprintln(w, headerStyle.Render("\nWITH PARAMETERS SUBSTITUTED"))
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for i, s := range states {
			fmt.Fprintf(tw, "  %s'\t=\t%s\n", s, bound[i])
		}
		tw.Flush()
	}

	fmt.Fprintln(w, headerStyle.Render("\nPROBLEM"))
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%v\n", labelStyle.Render("span"),
		valueStyle.Render(fmt.Sprintf("(%v, %v)", p.Span.T0, p.Span.TF)))
	for i, s := range states {
		fmt.Fprintf(tw, "  %s\t%v\n", labelStyle.Render(fmt.Sprintf("%s(%v)", s, p.Span.T0)),
			valueStyle.Render(fmt.Sprintf("%v", p.Y0[i])))
	}
	fmt.Fprintf(tw, "  %s\t%v\n", labelStyle.Render("max scale factor"),
		valueStyle.Render(fmt.Sprintf("%v", p.MaxScaleFactor)))
	tw.Flush()

	if opts := solve.OptionsToMap(p.Opts); len(opts) > 0 {
		fmt.Fprintln(w, headerStyle.Render("\nSOLVER"))
		keys := make([]string, 0, len(opts))
		for k := range opts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(tw, "  %s\t%v\n", labelStyle.Render(k),
				valueStyle.Render(fmt.Sprintf("%v", opts[k])))
		}
		tw.Flush()
	}
}

// ShowMaxima prints the peak magnitude of each state variable in state
// order, flagging any that leave the unit interval.
func ShowMaxima(w io.Writer, p *deq.Problem, maxima scale.MaximaMap) {
	fmt.Fprintln(w, headerStyle.Render("MAXIMA"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range p.Model.States() {
		peak := maxima[s]
		line := fmt.Sprintf("  %s\t%.6g", labelStyle.Render("max|"+string(s)+"|"), peak)
		if peak > 1 {
			line += "\t" + warnStyle.Render("exceeds unit range")
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
}

// ShowFactors prints the scale factor applied to each state variable.
func ShowFactors(w io.Writer, p *deq.Problem, factors scale.ScaleFactorMap) {
	fmt.Fprintln(w, headerStyle.Render("SCALE FACTORS"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range p.Model.States() {
		fmt.Fprintf(tw, "  %s\t%.6g\n", labelStyle.Render(string(s)), factors[s])
	}
	tw.Flush()
}
