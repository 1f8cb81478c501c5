package transcript

import (
	"regexp"
	"strings"
)

// IndistinctMarker is the literal placeholder rendered when a span of
// recognized text carries no usable content at all.
const IndistinctMarker = "*indistinct*"

// Confidence thresholds below which recognized text is treated as unreliable.
// These are fixed properties of the classifier, not per-call options.
const (
	minWordProbability = 0.40
	minAvgLogprob      = -1.2
)

var (
	wordlikeRegex = regexp.MustCompile(`[\p{L}\p{N}_\-]+`)
	asideRegex    = regexp.MustCompile(`\s*(\[[^\]]+\]|\([^\)]+\))\s*`)
)

// EmphasizeAsides rewrites bracketed or parenthetical asides into *aside*
// emphasis markup. Each aside is rewritten independently, left to right, and
// padded with single spaces so it does not merge with adjacent words.
func EmphasizeAsides(text string) string {
	return asideRegex.ReplaceAllStringFunc(text, func(match string) string {
		inner := strings.TrimSpace(match)
		if strings.HasPrefix(inner, "[") && strings.HasSuffix(inner, "]") {
			inner = strings.TrimSpace(inner[1 : len(inner)-1])
		}
		if strings.HasPrefix(inner, "(") && strings.HasSuffix(inner, ")") {
			inner = strings.TrimSpace(inner[1 : len(inner)-1])
		}
		return " *" + inner + "* "
	})
}

// IsIndistinct reports whether a span of recognized text is unreliable enough
// to be flagged rather than shown verbatim. Text with no word-like content,
// a low average word probability, or a low segment log-probability qualifies.
// The optional confidence signals are nil when the recognizer did not supply
// them.
func IsIndistinct(rawText string, avgLogprob, avgWordProbability *float64) bool {
	if rawText == "" || !wordlikeRegex.MatchString(rawText) {
		return true
	}
	if avgWordProbability != nil && *avgWordProbability < minWordProbability {
		return true
	}
	if avgLogprob != nil && *avgLogprob < minAvgLogprob {
		return true
	}
	return false
}

// Finalize produces the display text for a span of recognized raw text.
// Asides are rewritten to emphasis markup first; if the raw text is judged
// indistinct the whole result is wrapped in emphasis, falling back to the
// literal indistinct marker when nothing remains to show. The indistinct test
// runs on the raw text, not the emphasized rewrite, so a bracketed aside that
// is the entire content is still classified by its original form.
func Finalize(rawText string, avgLogprob, avgWordProbability *float64) string {
	emphasized := EmphasizeAsides(rawText)
	if IsIndistinct(rawText, avgLogprob, avgWordProbability) {
		if emphasized == "" {
			return IndistinctMarker
		}
		return "*" + emphasized + "*"
	}
	return emphasized
}
