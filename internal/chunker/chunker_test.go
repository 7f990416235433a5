package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconstruct undoes the overlap: first chunk whole, every later chunk minus
// its leading overlap runes.
func reconstruct(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		runes := []rune(c)
		if i > 0 {
			runes = runes[overlap:]
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	s := New(100, 20)
	chunks := s.Split("a short bill text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short bill text", chunks[0])
}

func TestSplitEmptyAndBlankInput(t *testing.T) {
	s := New(100, 20)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitRespectsMaxSize(t *testing.T) {
	s := New(120, 30)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 60)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 120, "chunk %d too long", i)
	}
}

func TestSplitOverlapPrefixMatchesPredecessor(t *testing.T) {
	s := New(120, 30)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 60)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		require.GreaterOrEqual(t, len(cur), 30)
		tail := string(prev[len(prev)-30:])
		head := string(cur[:30])
		assert.Equal(t, tail, head, "chunk %d does not overlap its predecessor", i)
	}
}

func TestSplitReconstructsInput(t *testing.T) {
	s := New(150, 40)
	text := strings.Repeat("SECTION 1. Arkansas Code is amended to read as follows.\n\n", 40)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 2)
	assert.Equal(t, text, reconstruct(chunks, s.Overlap()))
}

func TestSplitPrefersParagraphBreak(t *testing.T) {
	// One paragraph break sits inside the backtrack window of the first cut;
	// the cut should land right after it rather than mid-word.
	para := strings.Repeat("x", 90) + "\n\n" + strings.Repeat("y", 200)
	s := New(100, 10)
	chunks := s.Split(para)
	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"), "first chunk should end at the paragraph break")
}

func TestSplitHardCutInUnbrokenRun(t *testing.T) {
	s := New(50, 10)
	text := strings.Repeat("z", 200)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, 50, len([]rune(chunks[0])))
	assert.Equal(t, text, reconstruct(chunks, s.Overlap()))
}

func TestSplitSanitizesControlCharacters(t *testing.T) {
	s := New(100, 20)
	chunks := s.Split("bill\x00text\x07with\tcontrols\nkept")
	require.Len(t, chunks, 1)
	assert.Equal(t, "bill text with\tcontrols\nkept", chunks[0])
}

func TestNewClampsDegenerateParameters(t *testing.T) {
	s := New(0, -5)
	assert.Equal(t, DefaultChunkSize, s.size)
	assert.Equal(t, 0, s.overlap)

	s = New(100, 100)
	assert.Equal(t, 50, s.overlap)
}

func TestSplitMultibyteRunes(t *testing.T) {
	s := New(60, 15)
	text := strings.Repeat("ñ", 200)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 60)
	}
	assert.Equal(t, text, reconstruct(chunks, s.Overlap()))
}
