// internal/sparkline/visualize.go
package sparkline

import (
	"sync"

	"github.com/mwiater/subline/internal/metrics"
)

// Options controls batch visualization. Zero-valued geometry fields fall
// back to the Subline defaults.
type Options struct {
	// CharsPerLine is the per-line width budget in character cells.
	// Zero means 80.
	CharsPerLine int
	// Metrics names the series to draw, in order: "surprisal",
	// "entropy", "s2". Duplicates are allowed. Empty means ("s2").
	Metrics []string
	// CharWidth overrides the character-cell width when positive.
	CharWidth float64
	// SparklineHeight overrides the curve band height when positive.
	SparklineHeight float64
	// WideTolerance overrides the wide-token threshold when positive.
	WideTolerance float64
	// Margin around each document. Zero means the default of 10.
	Margin float64
}

func (o Options) charsPerLine() int {
	if o.CharsPerLine <= 0 {
		return 80
	}
	return o.CharsPerLine
}

func (o Options) metricNames() []string {
	if len(o.Metrics) == 0 {
		return []string{"s2"}
	}
	return o.Metrics
}

// apply overlays the option overrides onto a freshly constructed assembler.
func (o Options) apply(vis *Subline) {
	if o.CharWidth > 0 {
		vis.CharWidth = o.CharWidth
	}
	if o.SparklineHeight > 0 {
		vis.SparklineHeight = o.SparklineHeight
	}
	if o.WideTolerance > 0 {
		vis.WideTolerance = o.WideTolerance
	}
	if o.Margin > 0 {
		vis.Margin = o.Margin
	}
}

// VisualizeBatch renders one SVG document per sequence in the batch.
//
// Sequences have no data dependency on one another, so each renders on its
// own goroutine into its slot of the result slice. Unknown metric names fail
// before any rendering starts.
func VisualizeBatch(m *metrics.TokenMetrics, opts Options) ([]string, error) {
	count := m.SequenceCount()
	allSeries := make([][]Series, count)
	for i := 0; i < count; i++ {
		for _, metric := range opts.metricNames() {
			series, err := BuildSeries(m, metric, i)
			if err != nil {
				return nil, err
			}
			allSeries[i] = append(allSeries[i], series...)
		}
	}

	docs := make([]string, count)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vis := NewSubline(opts.charsPerLine())
			opts.apply(vis)
			docs[i] = vis.Visualize(m.Tokens[i], allSeries[i])
		}(i)
	}
	wg.Wait()

	return docs, nil
}
