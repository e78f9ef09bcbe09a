// cmd/chaos/report.go
package main

import (
	"fmt"
	"io"
	"math"
	"slices"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/opd-ai/go-magball/pkg/chaos"
)

// lengthHistogram counts perimeter coordinates in bins equal slices of
// [0, perimeter]. A coordinate equal to perimeter falls in the last bin.
func lengthHistogram(lengths []float64, perimeter float64, bins int) []float64 {
	if bins < 1 || !(perimeter > 0) {
		return nil
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, 0, perimeter)
	dividers[bins] = math.Nextafter(perimeter, math.Inf(1))

	x := make([]float64, 0, len(lengths))
	for _, l := range lengths {
		x = append(x, math.Max(0, math.Min(perimeter, l)))
	}
	slices.Sort(x)
	return stat.Histogram(nil, dividers, x, nil)
}

// writeStats prints one row per ball.
func writeStats(w io.Writer, stats []chaos.BallStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ball\thits\tmean l\tstd l\tmean cos\tstd cos\tmin cos\tmax cos\t")
	for _, s := range stats {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
			s.Ball, s.Count, s.MeanLength, s.StdLength, s.MeanAngle, s.StdAngle, s.MinAngle, s.MaxAngle)
	}
	return tw.Flush()
}

// writeReport prints the per-ball table and a plot of where the balls hit
// the boundary, pooled over every ball.
func writeReport(w io.Writer, study *chaos.Study, bins, height int) error {
	if err := writeStats(w, study.Stats()); err != nil {
		return err
	}

	var lengths []float64
	for i := range study.Balls() {
		lengths = append(lengths, study.Lengths(i)...)
	}
	if len(lengths) == 0 {
		_, err := fmt.Fprintln(w, "\nno boundary hits recorded")
		return err
	}

	hist := lengthHistogram(lengths, study.Perimeter(), bins)
	plot := asciigraph.Plot(hist,
		asciigraph.Height(height),
		asciigraph.Width(bins),
		asciigraph.Caption(fmt.Sprintf("boundary hits by perimeter coordinate (0 to %.0f)", study.Perimeter())))
	_, err := fmt.Fprintf(w, "\n%s\n", plot)
	return err
}
