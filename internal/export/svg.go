package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/physics"
	"github.com/san-kum/dpend/internal/sim"
)

const (
	background = "#0a0a0a"
	traceColor = "#ffd700"
	armColor   = "#ffd700"
	bobColor   = "#ffffff"
)

// TraceToSVG draws the path of the lower bob over the run and the chain in
// its final position. Frames whose positions are not finite are skipped.
func TraceToSVG(frames []sim.Frame, p dynamo.Params, size int) string {
	if size <= 0 {
		return ""
	}
	reach := physics.Reach(p)
	if reach <= 0 {
		return ""
	}

	half := float64(size) / 2
	scale := half * 0.9 / reach
	screen := func(pt physics.Point) (float64, float64) {
		return half + pt.X*scale, half - pt.Y*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background)

	var last *sim.Frame
	started := false
	for i := range frames {
		_, bob2, ok := physics.Positions(frames[i].Arm1.Angle, frames[i].Arm2.Angle, p)
		if !ok {
			continue
		}
		x, y := screen(bob2)
		if !started {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.6" d="M%.1f,%.1f`, traceColor, x, y)
			started = true
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
		last = &frames[i]
	}
	if started {
		sb.WriteString("\"/>\n")
	}

	if last != nil {
		bob1, bob2, _ := physics.Positions(last.Arm1.Angle, last.Arm2.Angle, p)
		ox, oy := screen(physics.Point{})
		x1, y1 := screen(bob1)
		x2, y2 := screen(bob2)
		fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="3" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>
`, armColor, ox, oy, x1, y1, x2, y2)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>
<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>
`, x1, y1, bobColor, x2, y2, bobColor)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
