package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/dpend/internal/sim"
)

// BifurcationPoint holds the distinct section angles found for one value of
// the swept parameter.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// BifurcationDiagram reduces a parameter sweep to the lower arm angles at
// the Poincare crossings that happen after transient. params[i] is the
// parameter value used for results[i].
func BifurcationDiagram(params []float64, results []*sim.Result, transient float64) []BifurcationPoint {
	n := min(len(params), len(results))
	out := make([]BifurcationPoint, 0, n)

	for i := 0; i < n; i++ {
		frames := results[i].Frames
		start := sort.Search(len(frames), func(j int) bool { return frames[j].Time >= transient })

		seen := make(map[int]bool)
		values := make([]float64, 0)
		for _, p := range PoincareSection(frames[start:]) {
			key := int(math.Round(p.X * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, p.X)
			}
		}
		sort.Float64s(values)
		out = append(out, BifurcationPoint{Param: params[i], Values: values})
	}
	return out
}

// BifurcationToASCII draws one column per parameter value.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	points := make([]Point, 0)
	for i, p := range data {
		for _, v := range p.Values {
			points = append(points, Point{X: float64(i), Y: v})
		}
	}
	return ScatterToASCII(points, width, height)
}
