// internal/sparkline/curve.go
package sparkline

import (
	"fmt"
	"math"
	"strings"

	"github.com/mwiater/subline/internal/svg"
	"github.com/mwiater/subline/internal/util"
)

// defaultPalette colors series that carry no explicit color hint.
var defaultPalette = []string{
	"#3b82f6", // blue
	"#ef4444", // red
	"#22c55e", // green
	"#f97316", // orange
	"#a855f7", // purple
}

const (
	baselineColor = "#cccccc"
	// baselineExtension pushes each baseline stroke slightly past the
	// character anchors so adjacent tokens read as separate segments
	// without visible gaps at the anchor itself.
	baselineExtension = 0.2
)

// Sparkline draws one smooth curve per series beneath a line of tokens.
type Sparkline struct {
	series        []Series
	StrokeWidth   float64
	BaselineWidth float64
	WideTolerance float64

	ids *svg.IDSequence
}

// NewSparkline creates a renderer that draws clip-path ids from the given
// sequence.
func NewSparkline(ids *svg.IDSequence) *Sparkline {
	return &Sparkline{
		StrokeWidth:   1.0,
		BaselineWidth: 3.0,
		WideTolerance: DefaultWideTolerance,
		ids:           ids,
	}
}

// AddSeries appends a data series to the plot.
func (sp *Sparkline) AddSeries(s Series) *Sparkline {
	sp.series = append(sp.series, s)
	return sp
}

// pathData builds the SVG path for one series over one line, breaking at NaN
// values.
//
// The window is widened by one token on each side where available, so a curve
// that continues on the previous or next display line picks up the correct
// control positions at the boundary. The peeked geometry lands outside the
// line's clip region and is never visible itself.
func (sp *Sparkline) pathData(values []float64, spans []TokenBB, line LineRange, h float64) string {
	peekStart := util.Max(0, line.Start-1)
	peekEnd := util.Min(len(spans), line.End+1)

	// The left peek token sits conceptually before the visible line, so
	// the running offset starts at its negative width.
	x := 0.0
	if peekStart < line.Start {
		x = -spans[peekStart].Width
	}

	var points []string
	drawing := false

	for i := peekStart; i < peekEnd; i++ {
		span := spans[i]
		v := values[i]

		if math.IsNaN(v) {
			drawing = false
		} else {
			y := h - h*v

			// The smooth-curve control point trails the anchor by
			// the anchor's distance from the token edge, flattening
			// the curve across the character cell.
			vertex := x + span.FirstChar
			cp := vertex - span.FirstChar
			if drawing {
				points = append(points, fmt.Sprintf("S %.1f,%.1f %.1f,%.1f", cp, y, vertex, y))
			} else {
				points = append(points, fmt.Sprintf("M %.1f,%.1f", vertex, y))
				drawing = true
			}

			// Wide tokens get a second anchor at the last character,
			// producing a plateau across the token instead of a
			// single spike.
			if span.IsWide(sp.WideTolerance) {
				vertex = x + span.LastChar
				cp = vertex - (span.Width - span.LastChar)
				points = append(points, fmt.Sprintf("S %.1f,%.1f %.1f,%.1f", cp, y, vertex, y))
			}
		}

		x += span.Width
	}

	return strings.Join(points, " ")
}

// Render draws all series and the token baseline for one line into parent at
// the given position. h is the sparkline height; a value of 1.0 maps to the
// top of the band.
func (sp *Sparkline) Render(parent *svg.Element, spans []TokenBB, line LineRange, x, y, h float64) {
	if x != 0 || y != 0 {
		parent = parent.Child("g").
			Set("transform", fmt.Sprintf("translate(%s, %s)", svg.FormatFloat(x), svg.FormatFloat(y)))
	}

	lineWidth := 0.0
	for _, span := range spans[line.Start:line.End] {
		lineWidth += span.Width
	}

	// Clip to the visible token span, extended vertically, so curve
	// segments built from peeked context never bleed past the line.
	clipID := sp.ids.Next()
	clip := parent.Child("clipPath").Set("id", clipID)
	clip.Child("rect").
		SetInt("x", 0).
		SetFloat("y", -h).
		SetFloat("width", lineWidth).
		SetFloat("height", h*2)

	for i, s := range sp.series {
		color := s.Color
		if color == "" {
			color = defaultPalette[i%len(defaultPalette)]
		}
		path := parent.Child("path").
			Set("d", sp.pathData(s.Values(), spans, line, h)).
			Set("fill", "none").
			Set("stroke", color).
			SetFloat("stroke-width", sp.StrokeWidth)
		if s.Dash != "" {
			path.Set("stroke-dasharray", s.Dash)
		}
		path.Set("clip-path", fmt.Sprintf("url(#%s)", clipID))
	}

	// A constant stroke beneath each token's character span anchors the
	// eye to token boundaries independent of the data curves.
	var baseline strings.Builder
	pos := 0.0
	for _, span := range spans[line.Start:line.End] {
		fmt.Fprintf(&baseline, "M%.1f,%.1f L%.1f,%.1f ",
			pos+span.FirstChar-baselineExtension, h,
			pos+span.LastChar+baselineExtension, h)
		pos += span.Width
	}
	parent.Child("path").
		Set("d", strings.TrimSpace(baseline.String())).
		Set("fill", "none").
		Set("stroke", baselineColor).
		SetFloat("stroke-width", sp.BaselineWidth).
		Set("stroke-linecap", "round")
}
