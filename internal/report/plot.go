package report

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odescale/internal/deq"
)

const (
	plotHeight = 10
	plotWidth  = 80
)

// PlotTrajectory prints one graph per state variable.
func PlotTrajectory(w io.Writer, p *deq.Problem, traj *deq.Trajectory) error {
	if traj.Len() == 0 {
		return fmt.Errorf("report: no samples to plot")
	}
	for i, s := range p.Model.States() {
		graph := asciigraph.Plot(traj.Component(i),
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("%s over %s in (%v, %v)",
				s, p.Model.Indep(), p.Span.T0, p.Span.TF)),
		)
		fmt.Fprintln(w, graphStyle.Render(graph))
		fmt.Fprintln(w)
	}
	return nil
}
