// internal/metrics/calc.go

// Package metrics computes per-token surprisal and entropy, plus per-sequence
// aggregates, from the log-probability distributions returned by an external
// predictor. The package is a pure computation library: it does not log,
// retry, or degrade, and NaN is the documented representation of "no metric
// defined at this position", never an error.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mwiater/subline/internal/predictors"
)

var (
	// ErrInvalidVocabulary reports a vocabulary too small to normalize
	// against: entropy normalization divides by log(vocabSize).
	ErrInvalidVocabulary = errors.New("vocabulary must contain more than one entry")

	// ErrLengthMismatch reports a disagreement between the predictor's
	// reported sequence lengths and the data it returned. It indicates a
	// contract violation by the external collaborator and is not
	// recoverable here.
	ErrLengthMismatch = errors.New("sequence length disagrees with predictor output")
)

// minProb clamps probabilities away from exactly zero so that p*log(p)
// contributions stay finite.
const minProb = 1e-10

var displayCleaner = strings.NewReplacer("\n", "↵", "\t", "→")

// cleanTokensForDisplay substitutes control whitespace with visible glyphs so
// tokens containing literal line breaks cannot corrupt the rendered layout.
func cleanTokensForDisplay(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = displayCleaner.Replace(tok)
	}
	return out
}

// Calc scores a batch of texts with the given predictor and derives token
// metrics for every sequence.
//
// An empty batch yields a zero-sequence result, not an error.
func Calc(ctx context.Context, texts []string, p predictors.Predictor) (*TokenMetrics, error) {
	if len(texts) == 0 {
		return &TokenMetrics{
			Tokens:             [][]string{},
			Surprisal:          [][]float64{},
			Entropy:            [][]float64{},
			SequenceEntropy:    []float64{},
			SequencePerplexity: []float64{},
			SequenceLength:     []int{},
		}, nil
	}

	pred, err := p.Predict(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("predict batch: %w", err)
	}
	if pred.VocabSize <= 1 {
		return nil, fmt.Errorf("vocab size %d: %w", pred.VocabSize, ErrInvalidVocabulary)
	}

	batch := len(pred.InputIDs)
	width := 0
	if batch > 0 {
		width = len(pred.InputIDs[0])
	}
	if len(pred.AttentionMask) != batch || len(pred.LogProbs) != batch || len(pred.Lengths) != batch {
		return nil, fmt.Errorf("batch shape disagrees across predictor arrays (ids %d, mask %d, dists %d, lengths %d): %w",
			batch, len(pred.AttentionMask), len(pred.LogProbs), len(pred.Lengths), ErrLengthMismatch)
	}

	m := &TokenMetrics{
		Tokens:             make([][]string, batch),
		Surprisal:          make([][]float64, batch),
		Entropy:            make([][]float64, batch),
		SequenceEntropy:    make([]float64, batch),
		SequencePerplexity: make([]float64, batch),
		SequenceLength:     make([]int, batch),
		VocabSize:          pred.VocabSize,
	}

	// Every row must share the first row's padded width, with one
	// distribution per predicted position.
	wantDists := width - 1
	if wantDists < 0 {
		wantDists = 0
	}

	for i := 0; i < batch; i++ {
		length := pred.Lengths[i]
		if length > width {
			return nil, fmt.Errorf("sequence %d: reported length %d exceeds padded width %d: %w",
				i, length, width, ErrLengthMismatch)
		}
		if len(pred.InputIDs[i]) != width || len(pred.AttentionMask[i]) != width || len(pred.LogProbs[i]) != wantDists {
			return nil, fmt.Errorf("sequence %d: ragged predictor output (ids %d, mask %d, dists %d, width %d): %w",
				i, len(pred.InputIDs[i]), len(pred.AttentionMask[i]), len(pred.LogProbs[i]), width, ErrLengthMismatch)
		}

		surprisal := make([]float64, width)
		entropy := make([]float64, width)
		if width > 0 {
			surprisal[0] = math.NaN()
			entropy[0] = math.NaN()
		}

		// Position t holds metrics for predicting token t from its
		// left context, so it reads distribution t-1 and mask bit t.
		var sumSurprisal, sumEntropy float64
		valid := 0
		for t := 1; t < width; t++ {
			if pred.AttentionMask[i][t] == 0 {
				continue
			}
			dist := pred.LogProbs[i][t-1]
			tokenLogProb := float64(dist[pred.InputIDs[i][t]])
			surprisal[t] = -tokenLogProb

			var h float64
			for _, lp := range dist {
				lp64 := float64(lp)
				prob := math.Exp(lp64)
				if prob < minProb {
					prob = minProb
				}
				h -= prob * lp64
			}
			entropy[t] = h

			sumSurprisal += surprisal[t]
			sumEntropy += h
			valid++
		}

		if valid > 0 {
			m.SequenceEntropy[i] = sumEntropy / float64(valid)
			// Exponentiate after averaging: averaging per-token
			// perplexities first loses precision across sequences
			// with very different surprisal magnitudes.
			m.SequencePerplexity[i] = math.Exp(sumSurprisal / float64(valid))
		} else {
			m.SequenceEntropy[i] = math.NaN()
			m.SequencePerplexity[i] = math.NaN()
		}

		decoded, err := p.Decode(pred.InputIDs[i][:length])
		if err != nil {
			return nil, fmt.Errorf("decode sequence %d: %w", i, err)
		}
		if len(decoded) != length {
			return nil, fmt.Errorf("sequence %d: decoded %d tokens, predictor reported %d: %w",
				i, len(decoded), length, ErrLengthMismatch)
		}

		m.Tokens[i] = cleanTokensForDisplay(decoded)
		m.Surprisal[i] = surprisal
		m.Entropy[i] = entropy
		m.SequenceLength[i] = length
	}

	return m, nil
}
