package dialogue

import (
	"sort"

	"go.uber.org/zap"

	"callscribe/internal/transcript"
)

// Merger reconciles the two independently recognized channel transcripts of a
// call into a single chronologically ordered, speaker-labeled dialogue.
type Merger struct {
	logger *zap.Logger
}

// NewMerger creates a new Merger instance
func NewMerger() *Merger {
	return &Merger{
		logger: zap.NewNop(), // Default to no-op logger
	}
}

// NewMergerWithLogger creates a new Merger with the given logger
func NewMergerWithLogger(logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop() // Use no-op logger if nil is passed
	}
	return &Merger{
		logger: logger,
	}
}

// MergeDialogue labels each channel's segments with its speaker, cuts each
// channel at the other channel's turn-start times so no line spans a point
// where the other party began talking, and sorts the combined result into one
// timeline. Overlapping spans (simultaneous speech) simply appear in start
// order; overlap is not resolved or flagged.
func (m *Merger) MergeDialogue(leftSegments []transcript.Segment, leftSpeaker string, rightSegments []transcript.Segment, rightSpeaker string) []transcript.Segment {
	leftLabeled := labelSpeaker(leftSegments, leftSpeaker)
	rightLabeled := labelSpeaker(rightSegments, rightSpeaker)

	leftBoundaries := startTimes(rightLabeled)
	rightBoundaries := startTimes(leftLabeled)

	leftFinal := ApplyBoundaries(leftLabeled, leftBoundaries)
	rightFinal := ApplyBoundaries(rightLabeled, rightBoundaries)

	merged := make([]transcript.Segment, 0, len(leftFinal)+len(rightFinal))
	merged = append(merged, leftFinal...)
	merged = append(merged, rightFinal...)

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Start != merged[j].Start {
			return merged[i].Start < merged[j].Start
		}
		return merged[i].End < merged[j].End
	})

	m.logger.Debug("merged channel transcripts",
		zap.String("left_speaker", leftSpeaker),
		zap.Int("left_segments", len(leftSegments)),
		zap.String("right_speaker", rightSpeaker),
		zap.Int("right_segments", len(rightSegments)),
		zap.Int("merged_segments", len(merged)))

	return merged
}

// labelSpeaker returns copies of the segments with the speaker label set.
func labelSpeaker(segments []transcript.Segment, speaker string) []transcript.Segment {
	labeled := make([]transcript.Segment, 0, len(segments))
	for _, seg := range segments {
		labeled = append(labeled, seg.WithSpeaker(speaker))
	}
	return labeled
}

// startTimes collects the start time of every segment, in order.
func startTimes(segments []transcript.Segment) []float64 {
	times := make([]float64, 0, len(segments))
	for _, seg := range segments {
		times = append(times, seg.Start)
	}
	return times
}
