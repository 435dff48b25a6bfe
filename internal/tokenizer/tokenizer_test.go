package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicCounter_Count(t *testing.T) {
	c := NewHeuristicCounter()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single char", "a", 1},
		{"under one token", "abc", 1},
		{"exactly one token", "abcd", 1},
		{"two tokens", "abcdefgh", 2},
		{"longer text", strings.Repeat("x", 400), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Count(tt.text))
		})
	}
}

func TestHeuristicCounter_NeverZeroForNonEmpty(t *testing.T) {
	c := NewHeuristicCounter()
	for _, s := range []string{".", "ab", "abc", "日"} {
		assert.Greater(t, c.Count(s), 0, "input %q", s)
	}
}

func TestHeuristicCounter_Monotonic(t *testing.T) {
	c := NewHeuristicCounter()
	a := "some prefix text"
	b := " and a suffix"
	assert.GreaterOrEqual(t, c.Count(a+b), c.Count(a))
}

// newTiktokenCounter skips the test when the BPE vocabulary cannot be
// loaded. tiktoken-go fetches it over the network on first use, so these
// tests cannot run offline.
func newTiktokenCounter(t *testing.T, encoding string) *TiktokenCounter {
	t.Helper()
	c, err := NewTiktokenCounter(encoding)
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	return c
}

func TestTiktokenCounter_Count(t *testing.T) {
	c := newTiktokenCounter(t, DefaultEncoding)

	assert.Equal(t, 0, c.Count(""))
	assert.Greater(t, c.Count("hello world"), 0)
	// Exact counting is deterministic
	assert.Equal(t, c.Count("the quick brown fox"), c.Count("the quick brown fox"))
}

func TestTiktokenCounter_DefaultEncoding(t *testing.T) {
	c := newTiktokenCounter(t, "")
	assert.Equal(t, StrategyTiktoken+":"+DefaultEncoding, c.Name())
}

func TestNew_Strategies(t *testing.T) {
	h, err := New(StrategyHeuristic, "")
	require.NoError(t, err)
	assert.Equal(t, StrategyHeuristic, h.Name())

	d, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, StrategyHeuristic, d.Name())

	tk, err := New(StrategyTiktoken, DefaultEncoding)
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	assert.Contains(t, tk.Name(), StrategyTiktoken)

	_, err = New("nope", "")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
