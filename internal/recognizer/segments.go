package recognizer

import (
	"strings"

	"callscribe/internal/transcript"
)

// splitGapSeconds is the pause between consecutive words beyond which a raw
// recognition segment is broken into separate transcript segments. The model
// tends to glue whole exchanges together; real conversations pause.
const splitGapSeconds = 0.40

// buildSegments folds the raw recognition output into immutable transcript
// segments. Word-aligned segments are regrouped at silence gaps; segments
// without word alignment pass through as-is. Display text is classified and
// finalized here, at creation time, and empty lines are filtered out.
func buildSegments(raw []engineSegment) []transcript.Segment {
	var segments []transcript.Segment

	for _, seg := range raw {
		if len(seg.Words) > 0 {
			segments = append(segments, foldWords(seg)...)
			continue
		}

		// Fallback when the model produced no word timestamps
		rawText := strings.TrimSpace(seg.Text)
		segments = append(segments, transcript.Segment{
			Start:        seg.Start,
			End:          seg.End,
			Text:         transcript.Finalize(rawText, seg.AvgLogprob, nil),
			AvgLogprob:   seg.AvgLogprob,
			NoSpeechProb: seg.NoSpeechProb,
		})
	}

	filtered := make([]transcript.Segment, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) != "" {
			filtered = append(filtered, seg)
		}
	}
	return filtered
}

// foldWords walks one raw segment's word stream, flushing a new transcript
// segment whenever the gap to the previous word reaches splitGapSeconds.
func foldWords(seg engineSegment) []transcript.Segment {
	var out []transcript.Segment
	var group []transcript.WordToken

	flush := func() {
		if len(group) == 0 {
			return
		}
		rawText := strings.TrimSpace(transcript.JoinWords(group))
		out = append(out, transcript.Segment{
			Start:        group[0].Start,
			End:          group[len(group)-1].End,
			Text:         transcript.Finalize(rawText, seg.AvgLogprob, transcript.AverageProbability(group)),
			AvgLogprob:   seg.AvgLogprob,
			NoSpeechProb: seg.NoSpeechProb,
			Words:        group,
		})
		group = nil
	}

	var prevEnd float64
	for i, w := range seg.Words {
		if i > 0 && w.Start-prevEnd >= splitGapSeconds {
			flush()
		}
		group = append(group, transcript.WordToken{
			Start:       w.Start,
			End:         w.End,
			Word:        w.Word,
			Probability: w.Probability,
		})
		prevEnd = w.End
	}
	flush()

	return out
}
