// internal/predictors/predictor.go

// Package predictors defines the interface to external scoring backends.
// A predictor tokenizes a batch of texts, runs next-token prediction over the
// padded batch, and reports the full log-probability distributions so that
// callers can derive information-content metrics. How the backend produces
// the distributions (model, device, quantization) is its own business.
package predictors

import "context"

// Prediction is the result of scoring one batch of texts. All per-sequence
// slices share the batch order of the request.
type Prediction struct {
	// InputIDs holds the token ids for each sequence, right-padded to a
	// common length T.
	InputIDs [][]int
	// AttentionMask marks real tokens with 1 and padding with 0, shaped
	// like InputIDs.
	AttentionMask [][]int
	// LogProbs holds log-probabilities over the vocabulary for positions
	// 0..T-2 predicting tokens 1..T-1, shaped [B][T-1][V].
	LogProbs [][][]float32
	// Lengths reports the true (unpadded) token count of each sequence.
	Lengths []int
	// VocabSize is the size V of the output distribution.
	VocabSize int
}

// Predictor scores batches of texts and decodes token ids back to display
// strings. Predict is a single blocking call per batch; retries and latency
// bounds are the caller's concern.
type Predictor interface {
	Predict(ctx context.Context, texts []string) (*Prediction, error)
	// Decode maps token ids to their display strings, one string per id.
	Decode(ids []int) ([]string, error)
}
