package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"callscribe/internal/transcript"
)

func TestMerger_MergeDialogue(t *testing.T) {
	t.Run("should cut each channel at the other channel's turn starts", func(t *testing.T) {
		// Arrange
		merger := NewMerger()
		channelA := []transcript.Segment{{Start: 0.0, End: 1.0, Text: "Hello"}}
		channelB := []transcript.Segment{{Start: 0.5, End: 1.5, Text: "Hi there"}}

		// Act
		merged := merger.MergeDialogue(channelA, "You", channelB, "Other")

		// Assert
		require.Len(t, merged, 2)
		assert.Equal(t, "Hello", merged[0].Text)
		assert.Equal(t, "You", merged[0].Speaker)
		assert.Equal(t, 0.0, merged[0].Start)
		assert.Equal(t, 0.5, merged[0].End, "A's line ends where B starts talking")
		assert.Equal(t, "Hi there", merged[1].Text)
		assert.Equal(t, "Other", merged[1].Speaker)
		assert.Equal(t, 0.5, merged[1].Start)
		assert.Equal(t, 1.5, merged[1].End)
	})

	t.Run("should sort output by start then end", func(t *testing.T) {
		// Arrange
		merger := NewMergerWithLogger(zap.NewNop())
		left := []transcript.Segment{
			{Start: 5.0, End: 6.0, Text: "later"},
			{Start: 9.0, End: 9.5, Text: "last"},
		}
		right := []transcript.Segment{
			{Start: 1.0, End: 2.0, Text: "first"},
			{Start: 7.0, End: 8.0, Text: "middle"},
		}

		// Act
		merged := merger.MergeDialogue(left, "A", right, "B")

		// Assert
		require.Len(t, merged, 4)
		for i := 1; i < len(merged); i++ {
			assert.LessOrEqual(t, merged[i-1].Start, merged[i].Start, "output must be non-decreasing in start")
			if merged[i-1].Start == merged[i].Start {
				assert.LessOrEqual(t, merged[i-1].End, merged[i].End, "equal starts must be non-decreasing in end")
			}
		}
	})

	t.Run("should keep left channel first on identical spans", func(t *testing.T) {
		// Arrange: simultaneous speech, identical spans on both channels
		merger := NewMerger()
		left := []transcript.Segment{{Start: 2.0, End: 3.0, Text: "same time"}}
		right := []transcript.Segment{{Start: 2.0, End: 3.0, Text: "me too"}}

		// Act
		merged := merger.MergeDialogue(left, "A", right, "B")

		// Assert
		require.Len(t, merged, 2)
		assert.Equal(t, "A", merged[0].Speaker, "stable sort keeps concatenation order on ties")
		assert.Equal(t, "B", merged[1].Speaker)
	})

	t.Run("should label every output segment with one of the two speakers", func(t *testing.T) {
		// Arrange
		merger := NewMerger()
		left := []transcript.Segment{
			{Start: 0.0, End: 2.0, Text: "one two", Words: []transcript.WordToken{
				{Start: 0.0, End: 1.0, Word: "one "},
				{Start: 1.0, End: 2.0, Word: "two"},
			}},
		}
		right := []transcript.Segment{{Start: 1.0, End: 3.0, Text: "reply"}}

		// Act
		merged := merger.MergeDialogue(left, "You", right, "Other")

		// Assert
		require.NotEmpty(t, merged)
		for _, seg := range merged {
			assert.Contains(t, []string{"You", "Other"}, seg.Speaker, "speaker must always be set")
		}
	})

	t.Run("should not mutate the input segments", func(t *testing.T) {
		// Arrange
		merger := NewMerger()
		left := []transcript.Segment{{Start: 0.0, End: 1.0, Text: "hello"}}
		right := []transcript.Segment{{Start: 0.5, End: 1.5, Text: "hi"}}

		// Act
		merger.MergeDialogue(left, "You", right, "Other")

		// Assert
		assert.Empty(t, left[0].Speaker, "input segments must keep their unset speaker")
		assert.Equal(t, 1.0, left[0].End, "input timing must be untouched")
	})

	t.Run("should handle one empty channel", func(t *testing.T) {
		// Arrange
		merger := NewMerger()
		left := []transcript.Segment{{Start: 0.0, End: 1.0, Text: "monologue"}}

		// Act
		merged := merger.MergeDialogue(left, "You", nil, "Other")

		// Assert
		require.Len(t, merged, 1)
		assert.Equal(t, "You", merged[0].Speaker)
		assert.Equal(t, "monologue", merged[0].Text)
	})

	t.Run("should handle both channels empty", func(t *testing.T) {
		// Arrange
		merger := NewMerger()

		// Act
		merged := merger.MergeDialogue(nil, "You", nil, "Other")

		// Assert
		assert.Empty(t, merged)
	})

	t.Run("should split word-aligned turns so no line spans the other speaker's start", func(t *testing.T) {
		// Arrange: A talks 0-4 while B interjects at 2.0
		merger := NewMerger()
		left := []transcript.Segment{
			{Start: 0.0, End: 4.0, Text: "well I was thinking", Words: []transcript.WordToken{
				{Start: 0.0, End: 1.0, Word: "well "},
				{Start: 1.0, End: 2.0, Word: "I "},
				{Start: 2.0, End: 3.0, Word: "was "},
				{Start: 3.0, End: 4.0, Word: "thinking"},
			}},
		}
		right := []transcript.Segment{{Start: 2.0, End: 2.5, Text: "right"}}

		// Act
		merged := merger.MergeDialogue(left, "You", right, "Other")

		// Assert
		require.Len(t, merged, 3)
		assert.Equal(t, "well I", merged[0].Text)
		assert.Equal(t, "You", merged[0].Speaker)
		assert.Equal(t, "right", merged[1].Text)
		assert.Equal(t, "Other", merged[1].Speaker)
		assert.Equal(t, "was thinking", merged[2].Text)
		assert.Equal(t, "You", merged[2].Speaker)
	})
}
