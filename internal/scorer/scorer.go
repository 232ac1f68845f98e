// Package scorer computes error rates between a reference transcription
// and a model hypothesis. Both inputs are normalized before comparison.
package scorer

import (
	"strings"

	"github.com/arbovm/levenshtein"

	"go-htr-bench/internal/normalizer"
)

// WER computes the word error rate between reference and hypothesis:
// the word-level Levenshtein distance divided by the reference word
// count. The ratio is not clamped; a hypothesis with many insertions
// against a short reference can score above 1.
//
// An empty normalized reference scores 1.0 against any non-empty
// hypothesis and 0.0 against an empty one.
func WER(reference, hypothesis string) float64 {
	refWords := strings.Fields(normalizer.Normalize(reference))
	hypWords := strings.Fields(normalizer.Normalize(hypothesis))

	if len(refWords) == 0 {
		if len(hypWords) > 0 {
			return 1.0
		}
		return 0.0
	}

	return float64(wordDistance(refWords, hypWords)) / float64(len(refWords))
}

// CER computes the character error rate over the normalized texts, with
// the same degenerate-case rules as WER.
func CER(reference, hypothesis string) float64 {
	ref := normalizer.Normalize(reference)
	hyp := normalizer.Normalize(hypothesis)

	refLen := len([]rune(ref))
	if refLen == 0 {
		if len([]rune(hyp)) > 0 {
			return 1.0
		}
		return 0.0
	}

	return float64(levenshtein.Distance(ref, hyp)) / float64(refLen)
}

// wordDistance is the classic Levenshtein edit distance over word tokens,
// with substitution, insertion and deletion each costing 1. Two rows of
// the DP matrix suffice.
func wordDistance(ref, hyp []string) int {
	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)

	for j := 0; j <= len(hyp); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			if ref[i-1] == hyp[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min3(prev[j-1], curr[j-1], prev[j])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(hyp)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
