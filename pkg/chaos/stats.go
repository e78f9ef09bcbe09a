// pkg/chaos/stats.go
package chaos

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BallStats summarizes one ball's section.
type BallStats struct {
	Ball       int
	Count      int
	MeanLength float64
	StdLength  float64
	MeanAngle  float64
	StdAngle   float64
	MinAngle   float64
	MaxAngle   float64
}

// Stats returns per-ball summaries. Balls without samples report zeros;
// standard deviations need at least two samples.
func (s *Study) Stats() []BallStats {
	out := make([]BallStats, len(s.balls))
	for i := range s.balls {
		out[i] = summarize(i, s.Lengths(i), s.Angles(i))
	}
	return out
}

func summarize(ball int, lengths, angles []float64) BallStats {
	st := BallStats{Ball: ball, Count: len(lengths)}
	if st.Count == 0 {
		return st
	}

	if st.Count == 1 {
		st.MeanLength, st.MeanAngle = lengths[0], angles[0]
	} else {
		st.MeanLength, st.StdLength = stat.MeanStdDev(lengths, nil)
		st.MeanAngle, st.StdAngle = stat.MeanStdDev(angles, nil)
	}
	st.MinAngle = floats.Min(angles)
	st.MaxAngle = floats.Max(angles)
	return st
}
