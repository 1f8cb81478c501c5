package transcript

import (
	"fmt"
	"strings"
)

// WordToken represents a single recognized word with its own timing and an
// optional recognition confidence, as produced by the recognition engine.
// The raw text keeps whatever leading/trailing whitespace the recognizer
// emitted; tokens are concatenated, never joined with inserted separators.
type WordToken struct {
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Word        string   `json:"word"`
	Probability *float64 `json:"probability,omitempty"`
}

// Validate checks if the WordToken has valid values
func (wt *WordToken) Validate() error {
	if wt.Start < 0 {
		return fmt.Errorf("start cannot be negative")
	}

	if wt.End < wt.Start {
		return fmt.Errorf("end cannot be before start")
	}

	if wt.Probability != nil && (*wt.Probability < 0.0 || *wt.Probability > 1.0) {
		return fmt.Errorf("probability must be between 0.0 and 1.0")
	}

	return nil
}

// Segment represents a contiguous span of recognized speech attributed to one
// audio channel. Speaker is left empty by recognition and assigned exactly once
// by the dialogue merger. Words is populated only when the recognition engine
// supplied word-level alignment, ordered by start time.
type Segment struct {
	Start        float64     `json:"start"`
	End          float64     `json:"end"`
	Text         string      `json:"text"`
	AvgLogprob   *float64    `json:"avg_logprob,omitempty"`
	NoSpeechProb *float64    `json:"no_speech_prob,omitempty"`
	Speaker      string      `json:"speaker,omitempty"`
	Words        []WordToken `json:"words,omitempty"`
}

// Validate checks if the Segment has valid values
func (s *Segment) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("start cannot be negative")
	}

	if s.End < s.Start {
		return fmt.Errorf("end cannot be before start")
	}

	for i := range s.Words {
		if err := s.Words[i].Validate(); err != nil {
			return fmt.Errorf("word %d: %w", i, err)
		}
		if i > 0 && s.Words[i].Start < s.Words[i-1].Start {
			return fmt.Errorf("word %d starts before word %d", i, i-1)
		}
	}

	return nil
}

// WithSpeaker returns a copy of the segment with the speaker label assigned.
// The receiver is never mutated; all transformations over segments produce
// new values.
func (s Segment) WithSpeaker(speaker string) Segment {
	s.Speaker = speaker
	s.Words = append([]WordToken(nil), s.Words...)
	return s
}

// JoinWords concatenates the raw text of the given word tokens. The recognizer
// bakes separating whitespace into the tokens themselves, so no separator is
// inserted here.
func JoinWords(words []WordToken) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(w.Word)
	}
	return b.String()
}

// AverageProbability returns the mean recognition probability over the tokens
// that carry one, or nil when none do.
func AverageProbability(words []WordToken) *float64 {
	var sum float64
	var n int
	for _, w := range words {
		if w.Probability != nil {
			sum += *w.Probability
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
