// internal/sparkline/subline.go
package sparkline

import (
	"fmt"
	"unicode/utf8"

	"github.com/mwiater/subline/internal/svg"
)

const textColor = "#666666"

// Subline assembles wrapped token lines, their sparklines, and a legend into
// one SVG document.
type Subline struct {
	CharsPerLine    int
	FontSize        float64
	LineHeight      float64
	LineGap         float64
	CharWidth       float64
	SparklineHeight float64
	Margin          float64
	LegendHeight    float64
	WideTolerance   float64
}

// NewSubline creates an assembler with the default geometry for the given
// line budget.
func NewSubline(charsPerLine int) *Subline {
	const fontSize = 14
	return &Subline{
		CharsPerLine:    charsPerLine,
		FontSize:        fontSize,
		LineHeight:      fontSize,
		LineGap:         fontSize,
		CharWidth:       8.4,
		SparklineHeight: 20,
		Margin:          10,
		LegendHeight:    fontSize,
		WideTolerance:   DefaultWideTolerance,
	}
}

// seriesColor resolves the stroke color for the i-th series.
func seriesColor(s Series, i int) string {
	if s.Color != "" {
		return s.Color
	}
	return defaultPalette[i%len(defaultPalette)]
}

// addTextLine draws one line of tokens, each centered over its own span.
func (s *Subline) addTextLine(parent *svg.Element, tokens []string, line LineRange, x, y float64) {
	if x != 0 || y != 0 {
		parent = parent.Child("g").
			Set("transform", fmt.Sprintf("translate(%s, %s)", svg.FormatFloat(x), svg.FormatFloat(y)))
	}

	text := parent.Child("text").
		SetFloat("font-size", s.FontSize).
		SetFloat("y", s.FontSize*-0.2).
		Set("text-anchor", "middle").
		Set("fill", textColor)

	pos := 0.0
	for _, tok := range tokens[line.Start:line.End] {
		width := s.CharWidth * float64(utf8.RuneCountInString(tok))
		span := text.Child("tspan")
		span.SetFloat("x", pos+width/2)
		span.Text = tok
		pos += width
	}
}

// addLegend lays out one swatch and label per series horizontally and
// returns the total width used.
func (s *Subline) addLegend(parent *svg.Element, x, y float64, series []Series) float64 {
	legend := parent.Child("g").
		Set("transform", fmt.Sprintf("translate(%s, %s)", svg.FormatFloat(x), svg.FormatFloat(y)))

	const itemSpacing = 40.0
	currX := 0.0

	for i, srs := range series {
		swatch := legend.Child("line").
			SetFloat("x1", currX).
			SetInt("y1", 0).
			SetFloat("x2", currX+20).
			SetInt("y2", 0).
			Set("stroke", seriesColor(srs, i)).
			SetInt("stroke-width", 1).
			Set("shape-rendering", "crispEdges")
		if srs.Dash != "" {
			swatch.Set("stroke-dasharray", srs.Dash)
		}

		label := legend.Child("text").
			SetFloat("x", currX+25).
			SetInt("y", 4).
			Set("font-family", "system-ui").
			SetInt("font-size", 10).
			Set("fill", textColor)
		label.Text = srs.Label

		currX += itemSpacing + float64(utf8.RuneCountInString(srs.Label))*5
	}

	return currX
}

// Visualize renders tokens and their metric series into a self-contained SVG
// document. Output is deterministic: identical input produces byte-identical
// markup.
func (s *Subline) Visualize(tokens []string, series []Series) string {
	spans := TokenSpans(tokens, s.CharWidth)
	lines := WrapTokens(spans, s.CharsPerLine, s.CharWidth)

	fullLineHeight := s.LineHeight + s.SparklineHeight + s.LineGap
	contentHeight := float64(len(lines))*fullLineHeight + 2*s.Margin
	totalHeight := contentHeight + s.LineGap + s.LegendHeight

	root := svg.New("svg").
		Set("xmlns", "http://www.w3.org/2000/svg")
	style := root.Child("style")
	style.Text = `text { font-family: "Source Code Pro", "Noto Sans Mono", monospace; white-space: pre; }`

	spark := NewSparkline(svg.NewIDSequence("clip"))
	spark.WideTolerance = s.WideTolerance
	for _, srs := range series {
		spark.AddSeries(srs)
	}

	for i, line := range lines {
		yOffset := float64(i)*fullLineHeight + s.Margin
		baseline := yOffset + s.FontSize + 1
		s.addTextLine(root, tokens, line, s.Margin, baseline)
		spark.Render(root, spans, line, s.Margin, baseline+1, s.SparklineHeight)
	}

	legendY := contentHeight + s.LineGap + s.LegendHeight/2
	legendWidth := s.addLegend(root, s.Margin, legendY, series)

	textWidth := float64(s.CharsPerLine) * s.CharWidth
	totalWidth := textWidth + 2*s.Margin
	if w := legendWidth + 2*s.Margin; w > totalWidth {
		totalWidth = w
	}

	root.Set("viewBox", fmt.Sprintf("0 0 %s %s",
		svg.FormatFloat(totalWidth), svg.FormatFloat(totalHeight)))

	return root.String()
}
