// internal/sparkline/series.go

// Package sparkline renders per-token metric series as text-aligned SVG
// sparklines: tokens are laid into wrapped lines using fixed character-cell
// widths, and one smooth curve per series is drawn beneath each line,
// anchored to sub-token positions.
package sparkline

import (
	"errors"
	"fmt"
	"math"

	"github.com/mwiater/subline/internal/metrics"
)

// ErrUnknownMetric reports a request for a metric variant the series builder
// does not recognize.
var ErrUnknownMetric = errors.New("unknown metric")

// Series is a named, styled view of one numeric sequence. A series is
// created per visualization call, consumed immediately by the renderer, and
// never mutated.
type Series struct {
	// Raw holds one value per token. NaN marks positions with no defined
	// metric and renders as a gap.
	Raw   []float64
	Label string
	// Color overrides the palette when non-empty.
	Color string
	// Dash is an SVG stroke-dasharray hint.
	Dash string
	// MaxEntropy, when positive, divides every value so the series is
	// shown as a fraction of the maximum possible entropy log(vocabSize).
	// Zero means identity: values are shown in nats.
	MaxEntropy float64
}

// Values returns the normalized values ready for rendering. NaN propagates.
func (s Series) Values() []float64 {
	if s.MaxEntropy <= 0 {
		return s.Raw
	}
	out := make([]float64, len(s.Raw))
	for i, v := range s.Raw {
		out[i] = v / s.MaxEntropy
	}
	return out
}

// BuildSeries creates the series for one metric of one sequence in a batch.
// Recognized metrics:
//
//   - "surprisal" and "entropy" produce a single entropy-normalized series.
//   - "s2" produces the mirrored pair +S₂ / -S₂ of the surprise-surprise
//     score (surprisal - entropy) / log(vocabSize), so positive and negative
//     deviations are both visible above a shared baseline.
func BuildSeries(m *metrics.TokenMetrics, metric string, index int) ([]Series, error) {
	n := len(m.Tokens[index])
	maxEntropy := math.Log(float64(m.VocabSize))

	switch metric {
	case "entropy":
		return []Series{{
			Raw:        m.Entropy[index][:n],
			Label:      "Entropy",
			MaxEntropy: maxEntropy,
		}}, nil
	case "surprisal":
		return []Series{{
			Raw:        m.Surprisal[index][:n],
			Label:      "Surprisal",
			MaxEntropy: maxEntropy,
		}}, nil
	case "s2":
		pos := make([]float64, n)
		neg := make([]float64, n)
		for k := 0; k < n; k++ {
			s2 := (m.Surprisal[index][k] - m.Entropy[index][k]) / maxEntropy
			pos[k] = s2
			neg[k] = -s2
		}
		return []Series{
			{Raw: pos, Label: "+S₂"},
			{Raw: neg, Label: "-S₂", Dash: "3"},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}
