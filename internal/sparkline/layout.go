// internal/sparkline/layout.go
package sparkline

// LineRange is a half-open token index range [Start, End) forming one
// display line.
type LineRange struct {
	Start int
	End   int
}

// WrapTokens greedily partitions token spans into display lines under a
// width budget of charsPerLine character cells. Every token lands on exactly
// one line, lines are contiguous and non-overlapping, and no line is empty:
// a token wider than the whole budget still gets a line of its own. Zero
// tokens yield zero lines.
func WrapTokens(spans []TokenBB, charsPerLine int, charWidth float64) []LineRange {
	budget := float64(charsPerLine) * charWidth

	var lines []LineRange
	lineStart := 0
	currentWidth := 0.0

	for i, span := range spans {
		if currentWidth+span.Width > budget {
			if lineStart < i {
				lines = append(lines, LineRange{Start: lineStart, End: i})
			}
			lineStart = i
			currentWidth = span.Width
		} else {
			currentWidth += span.Width
		}
	}

	if lineStart < len(spans) {
		lines = append(lines, LineRange{Start: lineStart, End: len(spans)})
	}

	return lines
}
