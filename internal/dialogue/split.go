package dialogue

import (
	"sort"
	"strings"

	"callscribe/internal/transcript"
)

// Split cuts a segment at a single boundary time, returning up to two
// sub-segments. Boundaries outside the segment's span are a no-op. When
// word-level alignment is present the words are partitioned around the
// boundary; a word straddling the boundary is truncated and assigned to the
// side holding its midpoint. Without alignment there is no principled way to
// apportion the text, so the left part keeps all of it and the right part is
// an empty-text fragment expected to be discarded downstream.
func Split(segment transcript.Segment, boundaryTime float64) []transcript.Segment {
	if boundaryTime <= segment.Start || boundaryTime >= segment.End {
		return []transcript.Segment{segment}
	}

	if len(segment.Words) == 0 {
		left := segment
		left.End = boundaryTime
		right := segment
		right.Start = boundaryTime
		right.Text = ""
		return []transcript.Segment{left, right}
	}

	var leftWords, rightWords []transcript.WordToken
	for _, w := range segment.Words {
		switch {
		case w.End <= boundaryTime:
			leftWords = append(leftWords, w)
		case w.Start >= boundaryTime:
			rightWords = append(rightWords, w)
		default:
			// Straddling word: truncate to the side holding its midpoint.
			// The opposite side's remainder is not preserved.
			mid := (w.Start + w.End) / 2.0
			if mid <= boundaryTime {
				w.End = boundaryTime
				leftWords = append(leftWords, w)
			} else {
				w.Start = boundaryTime
				rightWords = append(rightWords, w)
			}
		}
	}

	parts := make([]transcript.Segment, 0, 2)
	if len(leftWords) > 0 {
		parts = append(parts, subSegment(segment, segment.Start, boundaryTime, leftWords))
	}
	if len(rightWords) > 0 {
		parts = append(parts, subSegment(segment, boundaryTime, segment.End, rightWords))
	}

	if len(parts) == 0 {
		// Guards against zero-word input: keep a placeholder so the timing
		// is not lost entirely.
		placeholder := segment
		placeholder.End = boundaryTime
		placeholder.Text = transcript.IndistinctMarker
		parts = append(parts, placeholder)
	}

	return parts
}

// subSegment builds one side of a split from its partitioned words, carrying
// the speaker and confidence signals of the source segment.
func subSegment(src transcript.Segment, start, end float64, words []transcript.WordToken) transcript.Segment {
	raw := strings.TrimSpace(transcript.JoinWords(words))
	return transcript.Segment{
		Start:        start,
		End:          end,
		Text:         transcript.Finalize(raw, src.AvgLogprob, src.NoSpeechProb),
		AvgLogprob:   src.AvgLogprob,
		NoSpeechProb: src.NoSpeechProb,
		Speaker:      src.Speaker,
		Words:        words,
	}
}

// ApplyBoundaries cuts every segment at every boundary time, in ascending
// boundary order. Each boundary is applied to the parts produced by the
// previous one, so a segment spanning several boundaries is cut by each in
// turn. Parts whose text trims to empty are dropped; the relative order of
// parts from the same source segment is preserved.
func ApplyBoundaries(segments []transcript.Segment, boundaryTimes []float64) []transcript.Segment {
	if len(segments) == 0 || len(boundaryTimes) == 0 {
		return segments
	}

	sorted := append([]float64(nil), boundaryTimes...)
	sort.Float64s(sorted)

	var result []transcript.Segment
	for _, seg := range segments {
		parts := []transcript.Segment{seg}
		for _, b := range sorted {
			next := make([]transcript.Segment, 0, len(parts)+1)
			for _, part := range parts {
				next = append(next, Split(part, b)...)
			}
			parts = next
		}
		result = append(result, parts...)
	}

	filtered := make([]transcript.Segment, 0, len(result))
	for _, seg := range result {
		if strings.TrimSpace(seg.Text) != "" {
			filtered = append(filtered, seg)
		}
	}
	return filtered
}
