package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/tankbot/internal/sim"
)

const tileIn = 24.0

// PathStyle sets the stroke colors of a trajectory plot.
type PathStyle struct {
	True    string
	Tracked string
	Grid    string
}

var DefaultPathStyle = PathStyle{
	True:    "#00ff88",
	Tracked: "#ff9f1a",
	Grid:    "#2a2a3a",
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

// fieldBounds covers every sample, snapped out to whole tiles so the grid
// lines land on the border.
func fieldBounds(samples []sim.Sample) bounds {
	b := bounds{
		minX: samples[0].True.X, maxX: samples[0].True.X,
		minY: samples[0].True.Y, maxY: samples[0].True.Y,
	}
	for _, s := range samples {
		for _, p := range []sim.Pose{s.True, s.Tracked} {
			b.minX = math.Min(b.minX, p.X)
			b.maxX = math.Max(b.maxX, p.X)
			b.minY = math.Min(b.minY, p.Y)
			b.maxY = math.Max(b.maxY, p.Y)
		}
	}

	b.minX = math.Floor(b.minX/tileIn)*tileIn - tileIn/2
	b.minY = math.Floor(b.minY/tileIn)*tileIn - tileIn/2
	b.maxX = math.Ceil(b.maxX/tileIn)*tileIn + tileIn/2
	b.maxY = math.Ceil(b.maxY/tileIn)*tileIn + tileIn/2

	// Keep the aspect ratio square.
	w, h := b.maxX-b.minX, b.maxY-b.minY
	if w > h {
		b.minY -= (w - h) / 2
		b.maxY += (w - h) / 2
	} else {
		b.minX -= (h - w) / 2
		b.maxX += (h - w) / 2
	}
	return b
}

// TrajectoryToSVG plots the true path and the odometry path of a run over a
// tile grid. It returns "" for fewer than two samples.
func TrajectoryToSVG(samples []sim.Sample, size int, style PathStyle) string {
	if len(samples) < 2 {
		return ""
	}

	b := fieldBounds(samples)
	scale := float64(size) / (b.maxX - b.minX)
	px := func(x float64) float64 { return (x - b.minX) * scale }
	py := func(y float64) float64 { return float64(size) - (y-b.minY)*scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke="%s" stroke-width="1">
`, size, size, size, size, style.Grid))

	for x := math.Ceil(b.minX/tileIn) * tileIn; x <= b.maxX; x += tileIn {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="0" x2="%.1f" y2="%d"/>`+"\n", px(x), px(x), size))
	}
	for y := math.Ceil(b.minY/tileIn) * tileIn; y <= b.maxY; y += tileIn {
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f"/>`+"\n", py(y), size, py(y)))
	}
	sb.WriteString("</g>\n")

	path := func(id, color, dash string, pose func(sim.Sample) sim.Pose) {
		sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="2"%s d="M`, id, color, dash))
		for i, s := range samples {
			p := pose(s)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(p.X), py(p.Y)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(p.X), py(p.Y)))
			}
		}
		sb.WriteString(`"/>` + "\n")
	}
	path("true", style.True, "", func(s sim.Sample) sim.Pose { return s.True })
	path("tracked", style.Tracked, ` stroke-dasharray="6 4"`, func(s sim.Sample) sim.Pose { return s.Tracked })

	start, end := samples[0].True, samples[len(samples)-1].True
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>`+"\n", px(start.X), py(start.Y), style.True))
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="8" height="8" fill="%s"/>`+"\n", px(end.X)-4, py(end.Y)-4, style.True))

	sb.WriteString("</svg>")
	return sb.String()
}
