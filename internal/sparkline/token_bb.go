// internal/sparkline/token_bb.go
package sparkline

import (
	"math"
	"unicode/utf8"
)

// DefaultWideTolerance is the relative tolerance below which a token's first
// and last character anchors are treated as coincident. A heuristic
// threshold, tunable through Subline configuration.
const DefaultWideTolerance = 0.05

// TokenBB is the 1-D bounding box of a token in character-cell coordinates.
// All positions are offsets from the token's left edge. Read-only after
// creation.
type TokenBB struct {
	// Width is the token's total horizontal extent.
	Width float64
	// FirstChar is the midpoint of the first character cell.
	FirstChar float64
	// Mid is the midpoint of the token.
	Mid float64
	// LastChar is the midpoint of the last character cell.
	LastChar float64
}

// IsWide reports whether the token spans more than roughly one character
// cell, i.e. its first and last character anchors are meaningfully apart.
func (b TokenBB) IsWide(relTol float64) bool {
	return !isClose(b.FirstChar, b.LastChar, relTol)
}

// isClose mirrors a relative-tolerance float comparison: true when the
// values differ by no more than relTol of the larger magnitude.
func isClose(a, b, relTol float64) bool {
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

// TokenSpans lays out display tokens as horizontal runs of fixed-width
// character cells. It does not measure glyph metrics; the rendering
// environment must use a monospaced font for the visual result to line up.
func TokenSpans(tokens []string, charWidth float64) []TokenBB {
	spans := make([]TokenBB, len(tokens))
	for i, tok := range tokens {
		width := charWidth * float64(utf8.RuneCountInString(tok))
		spans[i] = TokenBB{
			Width:     width,
			FirstChar: charWidth / 2,
			Mid:       width / 2,
			LastChar:  width - charWidth/2,
		}
	}
	return spans
}
