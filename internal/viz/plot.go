// Package viz renders recorded runs and live simulations in the terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

const (
	plotWidth  = 80
	plotHeight = 15
)

// Plot renders one named series as an ASCII line chart.
func Plot(name string, series []float64) string {
	if len(series) == 0 {
		return fmt.Sprintf("%s: no data", name)
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(name),
	)
	return graph
}

// PlotAll renders several series stacked vertically.
func PlotAll(series map[string][]float64, order []string) string {
	var b strings.Builder
	for _, name := range order {
		vals, ok := series[name]
		if !ok {
			continue
		}
		b.WriteString(Plot(name, vals))
		b.WriteString("\n\n")
	}
	return b.String()
}
