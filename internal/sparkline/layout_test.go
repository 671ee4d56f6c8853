// internal/sparkline/layout_test.go
package sparkline

import (
	"strings"
	"testing"
)

// checkPartition verifies that the returned lines cover [0, n) exactly once,
// in order, with no empty line.
func checkPartition(t *testing.T, lines []LineRange, n int) {
	t.Helper()

	if n == 0 {
		if len(lines) != 0 {
			t.Fatalf("expected zero lines for zero tokens, got %v", lines)
		}
		return
	}

	next := 0
	for _, line := range lines {
		if line.Start != next {
			t.Fatalf("lines must be contiguous: expected start %d, got %+v", next, line)
		}
		if line.End <= line.Start {
			t.Fatalf("empty or inverted line: %+v", line)
		}
		next = line.End
	}
	if next != n {
		t.Fatalf("lines must cover all %d tokens, covered %d", n, next)
	}
}

func TestTokenSpans(t *testing.T) {
	t.Parallel()

	spans := TokenSpans([]string{"a", "hello", "↵→"}, 8.4)
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}

	if spans[0].Width != 8.4 || spans[0].FirstChar != 4.2 || spans[0].LastChar != 4.2 {
		t.Fatalf("unexpected single-char span: %+v", spans[0])
	}
	if spans[1].Width != 42 || spans[1].FirstChar != 4.2 || spans[1].Mid != 21 || spans[1].LastChar != 37.8 {
		t.Fatalf("unexpected span: %+v", spans[1])
	}
	// Width counts runes, not bytes.
	if spans[2].Width != 16.8 {
		t.Fatalf("multibyte token width: got %v want 16.8", spans[2].Width)
	}

	if spans[0].IsWide(DefaultWideTolerance) {
		t.Fatal("single-char token must not be wide")
	}
	if !spans[1].IsWide(DefaultWideTolerance) {
		t.Fatal("five-char token must be wide")
	}
}

func TestWrapTokensSingleLine(t *testing.T) {
	t.Parallel()

	spans := TokenSpans([]string{"Hel", "lo"}, 8.4)
	lines := WrapTokens(spans, 80, 8.4)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %v", lines)
	}
	checkPartition(t, lines, 2)
}

func TestWrapTokensMultiLine(t *testing.T) {
	t.Parallel()

	tokens := strings.Fields(strings.Repeat("four ", 10))
	spans := TokenSpans(tokens, 8.4)
	// Ten 4-char tokens into a 10-char budget: two per line.
	lines := WrapTokens(spans, 10, 8.4)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %v", lines)
	}
	checkPartition(t, lines, len(tokens))
}

func TestWrapTokensOversizedToken(t *testing.T) {
	t.Parallel()

	tokens := []string{"ab", "averyverylongtoken", "cd"}
	spans := TokenSpans(tokens, 8.4)
	// Budget smaller than the middle token's own width: it still gets a
	// line of its own rather than looping or vanishing.
	lines := WrapTokens(spans, 4, 8.4)
	checkPartition(t, lines, len(tokens))
	if len(lines) != 3 {
		t.Fatalf("expected one token per line, got %v", lines)
	}
}

func TestWrapTokensEmpty(t *testing.T) {
	t.Parallel()

	lines := WrapTokens(nil, 80, 8.4)
	checkPartition(t, lines, 0)
}

func TestWrapTokensFlushesFinalLine(t *testing.T) {
	t.Parallel()

	tokens := []string{"aaaa", "bbbb", "c"}
	spans := TokenSpans(tokens, 8.4)
	lines := WrapTokens(spans, 8, 8.4)
	checkPartition(t, lines, len(tokens))
	last := lines[len(lines)-1]
	if last.End != len(tokens) {
		t.Fatalf("final open line must be flushed: %v", lines)
	}
}
