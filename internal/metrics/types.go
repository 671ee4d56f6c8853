// internal/metrics/types.go
package metrics

// TokenMetrics holds per-token and per-sequence information metrics for a
// batch of scored text sequences.
//
// Surprisal and Entropy are rectangular [B][T] arrays, right-padded to the
// batch's common width. Position 0 of every sequence is NaN: the first token
// has no left context, so no metric is defined there. Padding positions
// beyond a sequence's true length are zeroed by the attention mask and never
// contribute to the per-sequence aggregates.
type TokenMetrics struct {
	// Tokens holds the display strings per sequence. Jagged: sequence i
	// has exactly SequenceLength[i] entries.
	Tokens [][]string

	// Surprisal is -log P(token | context) per position, [B][T].
	Surprisal [][]float64
	// Entropy is the expected information content of the predicted
	// distribution per position, [B][T].
	Entropy [][]float64

	// SequenceEntropy is the mean per-position entropy over valid
	// positions, one value per sequence.
	SequenceEntropy []float64
	// SequencePerplexity is exp(mean surprisal) per sequence.
	SequencePerplexity []float64
	// SequenceLength is the true token count per sequence.
	SequenceLength []int

	// VocabSize is the size of the predictor's output distribution.
	// Always > 1 in a valid result.
	VocabSize int
}

// SequenceCount returns the number of sequences in the batch.
func (m *TokenMetrics) SequenceCount() int {
	return len(m.Tokens)
}

// SequenceView is a read-only view of one sequence's metrics with padding
// stripped.
type SequenceView struct {
	Tokens      []string
	Surprisal   []float64
	Entropy     []float64
	MeanEntropy float64
	Perplexity  float64
	Length      int
}

// Sequence returns the view for batch index i. The per-token slices are
// trimmed to the sequence's true length and alias the underlying arrays.
func (m *TokenMetrics) Sequence(i int) SequenceView {
	n := m.SequenceLength[i]
	return SequenceView{
		Tokens:      m.Tokens[i],
		Surprisal:   m.Surprisal[i][:n],
		Entropy:     m.Entropy[i][:n],
		MeanEntropy: m.SequenceEntropy[i],
		Perplexity:  m.SequencePerplexity[i],
		Length:      n,
	}
}
