// internal/metrics/calc_test.go
package metrics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/mwiater/subline/internal/predictors"
)

// stubPredictor returns a canned prediction and decodes ids through a fixed
// table.
type stubPredictor struct {
	pred      *predictors.Prediction
	err       error
	vocab     map[int]string
	decodeErr error
	// extraDecoded appends bogus tokens to every Decode call to simulate
	// a misbehaving tokenizer.
	extraDecoded int
	calls        int
}

func (s *stubPredictor) Predict(_ context.Context, _ []string) (*predictors.Prediction, error) {
	s.calls++
	return s.pred, s.err
}

func (s *stubPredictor) Decode(ids []int) ([]string, error) {
	if s.decodeErr != nil {
		return nil, s.decodeErr
	}
	out := make([]string, 0, len(ids)+s.extraDecoded)
	for _, id := range ids {
		tok, ok := s.vocab[id]
		if !ok {
			tok = fmt.Sprintf("<%d>", id)
		}
		out = append(out, tok)
	}
	for i := 0; i < s.extraDecoded; i++ {
		out = append(out, "<extra>")
	}
	return out, nil
}

// uniformLogProbs builds a log-probability distribution that assigns 1/v to
// every vocabulary entry.
func uniformLogProbs(v int) []float32 {
	lp := float32(-math.Log(float64(v)))
	dist := make([]float32, v)
	for i := range dist {
		dist[i] = lp
	}
	return dist
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCalcHelloTwoTokens(t *testing.T) {
	t.Parallel()

	const vocab = 50257
	stub := &stubPredictor{
		pred: &predictors.Prediction{
			InputIDs:      [][]int{{15496, 18798}},
			AttentionMask: [][]int{{1, 1}},
			LogProbs:      [][][]float32{{uniformLogProbs(vocab)}},
			Lengths:       []int{2},
			VocabSize:     vocab,
		},
		vocab: map[int]string{15496: "Hel", 18798: "lo"},
	}

	m, err := Calc(context.Background(), []string{"Hello"}, stub)
	if err != nil {
		t.Fatalf("Calc returned error: %v", err)
	}

	if m.SequenceCount() != 1 || m.SequenceLength[0] != 2 {
		t.Fatalf("unexpected batch shape: count=%d lengths=%v", m.SequenceCount(), m.SequenceLength)
	}
	if got := m.Tokens[0]; len(got) != 2 || got[0] != "Hel" || got[1] != "lo" {
		t.Fatalf("unexpected tokens: %v", got)
	}
	if !math.IsNaN(m.Surprisal[0][0]) || !math.IsNaN(m.Entropy[0][0]) {
		t.Fatal("position 0 must be NaN: no left context")
	}

	// A uniform distribution makes every metric log(V).
	logV := math.Log(vocab)
	if !almostEqual(m.Surprisal[0][1], logV) {
		t.Fatalf("surprisal=%v want %v", m.Surprisal[0][1], logV)
	}
	if m.Surprisal[0][1] < 0 {
		t.Fatalf("surprisal must be non-negative, got %v", m.Surprisal[0][1])
	}
	if !almostEqual(m.Entropy[0][1], logV) {
		t.Fatalf("entropy=%v want %v", m.Entropy[0][1], logV)
	}
	if !almostEqual(m.SequenceEntropy[0], logV) {
		t.Fatalf("sequence entropy=%v want %v", m.SequenceEntropy[0], logV)
	}
	if !almostEqual(m.SequencePerplexity[0], vocab) {
		t.Fatalf("perplexity=%v want %v", m.SequencePerplexity[0], float64(vocab))
	}
}

func TestCalcMaskedAggregates(t *testing.T) {
	t.Parallel()

	// Two sequences padded to width 3: the second has one padded
	// position whose distribution is garbage and must never leak into
	// the aggregates.
	dist := []float32{
		float32(math.Log(0.5)),
		float32(math.Log(0.25)),
		float32(math.Log(0.125)),
		float32(math.Log(0.125)),
	}
	garbage := []float32{0, 0, 0, 0}

	stub := &stubPredictor{
		pred: &predictors.Prediction{
			InputIDs:      [][]int{{0, 1, 2}, {3, 0, 0}},
			AttentionMask: [][]int{{1, 1, 1}, {1, 1, 0}},
			LogProbs: [][][]float32{
				{dist, dist},
				{dist, garbage},
			},
			Lengths:   []int{3, 2},
			VocabSize: 4,
		},
		vocab: map[int]string{0: "a", 1: "b", 2: "c", 3: "d"},
	}

	m, err := Calc(context.Background(), []string{"abc", "da"}, stub)
	if err != nil {
		t.Fatalf("Calc returned error: %v", err)
	}

	wantEntropy := -(0.5*math.Log(0.5) + 0.25*math.Log(0.25) + 2*0.125*math.Log(0.125))

	// Sequence 0: tokens 1 and 2 were assigned 0.25 and 0.125.
	if !almostEqual(m.Surprisal[0][1], -math.Log(0.25)) || !almostEqual(m.Surprisal[0][2], -math.Log(0.125)) {
		t.Fatalf("unexpected surprisal: %v", m.Surprisal[0])
	}
	if !almostEqual(m.SequenceEntropy[0], wantEntropy) {
		t.Fatalf("sequence entropy=%v want %v", m.SequenceEntropy[0], wantEntropy)
	}
	wantPPL := math.Exp((-math.Log(0.25) - math.Log(0.125)) / 2)
	if !almostEqual(m.SequencePerplexity[0], wantPPL) {
		t.Fatalf("perplexity=%v want %v", m.SequencePerplexity[0], wantPPL)
	}

	// Sequence 1: only position 1 is valid. The padded position stays
	// zeroed and the aggregates average over the single valid position.
	if m.Surprisal[1][2] != 0 || m.Entropy[1][2] != 0 {
		t.Fatalf("padded position must stay masked to zero: %v %v", m.Surprisal[1], m.Entropy[1])
	}
	if !almostEqual(m.SequenceEntropy[1], wantEntropy) {
		t.Fatalf("sequence entropy=%v want %v", m.SequenceEntropy[1], wantEntropy)
	}
	if !almostEqual(m.SequencePerplexity[1], math.Exp(-math.Log(0.5))) {
		t.Fatalf("perplexity=%v", m.SequencePerplexity[1])
	}
	if len(m.Tokens[1]) != 2 {
		t.Fatalf("tokens must be trimmed to the true length: %v", m.Tokens[1])
	}
}

func TestCalcInvalidVocabulary(t *testing.T) {
	t.Parallel()

	stub := &stubPredictor{
		pred: &predictors.Prediction{
			InputIDs:      [][]int{{0}},
			AttentionMask: [][]int{{1}},
			LogProbs:      [][][]float32{{}},
			Lengths:       []int{1},
			VocabSize:     1,
		},
	}

	_, err := Calc(context.Background(), []string{"x"}, stub)
	if !errors.Is(err, ErrInvalidVocabulary) {
		t.Fatalf("expected ErrInvalidVocabulary, got %v", err)
	}
}

func TestCalcEmptyBatch(t *testing.T) {
	t.Parallel()

	stub := &stubPredictor{err: errors.New("must not be called")}
	m, err := Calc(context.Background(), nil, stub)
	if err != nil {
		t.Fatalf("empty batch must not fail: %v", err)
	}
	if m.SequenceCount() != 0 {
		t.Fatalf("expected zero sequences, got %d", m.SequenceCount())
	}
	if stub.calls != 0 {
		t.Fatal("predictor must not be invoked for an empty batch")
	}
}

func TestCalcLengthMismatch(t *testing.T) {
	t.Parallel()

	pred := &predictors.Prediction{
		InputIDs:      [][]int{{0, 1}},
		AttentionMask: [][]int{{1, 1}},
		LogProbs:      [][][]float32{{uniformLogProbs(4)}},
		Lengths:       []int{2},
		VocabSize:     4,
	}

	t.Run("decoded count disagrees", func(t *testing.T) {
		stub := &stubPredictor{pred: pred, vocab: map[int]string{}, extraDecoded: 1}
		_, err := Calc(context.Background(), []string{"ab"}, stub)
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch, got %v", err)
		}
	})

	t.Run("reported length exceeds padded width", func(t *testing.T) {
		bad := *pred
		bad.Lengths = []int{5}
		stub := &stubPredictor{pred: &bad, vocab: map[int]string{}}
		_, err := Calc(context.Background(), []string{"ab"}, stub)
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch, got %v", err)
		}
	})

	t.Run("ragged mask row", func(t *testing.T) {
		bad := &predictors.Prediction{
			InputIDs:      [][]int{{0, 1}, {2, 3}},
			AttentionMask: [][]int{{1, 1}, {1}},
			LogProbs:      [][][]float32{{uniformLogProbs(4)}, {uniformLogProbs(4)}},
			Lengths:       []int{2, 2},
			VocabSize:     4,
		}
		stub := &stubPredictor{pred: bad, vocab: map[int]string{}}
		_, err := Calc(context.Background(), []string{"ab", "cd"}, stub)
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch, got %v", err)
		}
	})

	t.Run("missing distribution row", func(t *testing.T) {
		bad := &predictors.Prediction{
			InputIDs:      [][]int{{0, 1}, {2, 3}},
			AttentionMask: [][]int{{1, 1}, {1, 1}},
			LogProbs:      [][][]float32{{uniformLogProbs(4)}, {}},
			Lengths:       []int{2, 2},
			VocabSize:     4,
		}
		stub := &stubPredictor{pred: bad, vocab: map[int]string{}}
		_, err := Calc(context.Background(), []string{"ab", "cd"}, stub)
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch, got %v", err)
		}
	})

	t.Run("batch arrays disagree", func(t *testing.T) {
		bad := *pred
		bad.Lengths = []int{2, 2}
		stub := &stubPredictor{pred: &bad, vocab: map[int]string{}}
		_, err := Calc(context.Background(), []string{"ab"}, stub)
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("expected ErrLengthMismatch, got %v", err)
		}
	})
}

func TestCalcMakesWhitespaceVisible(t *testing.T) {
	t.Parallel()

	stub := &stubPredictor{
		pred: &predictors.Prediction{
			InputIDs:      [][]int{{0, 1}},
			AttentionMask: [][]int{{1, 1}},
			LogProbs:      [][][]float32{{uniformLogProbs(4)}},
			Lengths:       []int{2},
			VocabSize:     4,
		},
		vocab: map[int]string{0: "line\nbreak", 1: "\tindent"},
	}

	m, err := Calc(context.Background(), []string{"x"}, stub)
	if err != nil {
		t.Fatalf("Calc returned error: %v", err)
	}
	if m.Tokens[0][0] != "line↵break" || m.Tokens[0][1] != "→indent" {
		t.Fatalf("control whitespace must be substituted: %v", m.Tokens[0])
	}
}

func TestCalcPredictorError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("backend unavailable")
	stub := &stubPredictor{err: wantErr}
	_, err := Calc(context.Background(), []string{"x"}, stub)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped predictor error, got %v", err)
	}
}

func TestSequenceView(t *testing.T) {
	t.Parallel()

	m := &TokenMetrics{
		Tokens:             [][]string{{"a", "b"}},
		Surprisal:          [][]float64{{math.NaN(), 1.5, 0}},
		Entropy:            [][]float64{{math.NaN(), 2.5, 0}},
		SequenceEntropy:    []float64{2.5},
		SequencePerplexity: []float64{4.48},
		SequenceLength:     []int{2},
		VocabSize:          4,
	}

	view := m.Sequence(0)
	if view.Length != 2 || len(view.Surprisal) != 2 || len(view.Entropy) != 2 {
		t.Fatalf("view must trim padding: %+v", view)
	}
	if view.Surprisal[1] != 1.5 || view.MeanEntropy != 2.5 {
		t.Fatalf("unexpected view values: %+v", view)
	}
}
