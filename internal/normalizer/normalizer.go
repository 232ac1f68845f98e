// Package normalizer strips scaffold artifacts from raw model output so
// transcriptions can be compared on content alone: uncertainty markers,
// markdown code fences and reflection preambles models emit before the
// actual transcription.
package normalizer

import (
	"regexp"
	"strings"
)

var (
	uncertaintyMarker = regexp.MustCompile(`\[XXX\]`)

	closedMarkdownFence = regexp.MustCompile("(?s)```markdown(.*?)```")
	closedGenericFence  = regexp.MustCompile("(?s)```(.*?)```")
	openMarkdownFence   = regexp.MustCompile("^```markdown\\s*")
	openGenericFence    = regexp.MustCompile("^```\\s*")
	danglingCloseFence  = regexp.MustCompile("\\s*```$")
	bareMarkdownWord    = regexp.MustCompile(`^markdown\s*`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// reflectionMarkers are preamble phrases some models emit before the
// transcription proper. Checked in order; the first one found wins and
// everything up to and including it is discarded.
var reflectionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`Voici la transcription\s*:`),
	regexp.MustCompile(`Transcription\s*:`),
	regexp.MustCompile(`Voici le texte\s*:`),
	regexp.MustCompile(`Le texte transcrit\s*:`),
	regexp.MustCompile(`Ma transcription\s*:`),
	regexp.MustCompile(`Voici ma transcription\s*:`),
	regexp.MustCompile(`Texte transcrit\s*:`),
	regexp.MustCompile(`Contenu du document\s*:`),
}

// Normalize cleans raw model text for scoring. Applying it twice is a
// no-op for typical model output; reflection stripping is deliberately
// single-pass, so a stripped result that itself still contains a marker
// phrase is stripped further on a second call.
//
// Rule order matters: fence extraction is first-match-wins, reflection
// stripping is attempted regardless of which fence rule fired, and
// whitespace collapsing always runs last.
func Normalize(text string) string {
	text = uncertaintyMarker.ReplaceAllString(text, "")

	trimmed := strings.TrimSpace(text)
	switch {
	case closedMarkdownFence.MatchString(text):
		if m := closedMarkdownFence.FindStringSubmatch(text); m != nil {
			text = strings.TrimSpace(m[1])
		}
	case closedGenericFence.MatchString(text):
		if m := closedGenericFence.FindStringSubmatch(text); m != nil {
			text = strings.TrimSpace(m[1])
		}
	case strings.HasPrefix(trimmed, "```markdown"):
		text = strings.TrimSpace(openMarkdownFence.ReplaceAllString(trimmed, ""))
	case strings.HasPrefix(trimmed, "```"):
		text = strings.TrimSpace(openGenericFence.ReplaceAllString(trimmed, ""))
	case strings.HasSuffix(trimmed, "```"):
		text = strings.TrimSpace(danglingCloseFence.ReplaceAllString(trimmed, ""))
	case strings.HasPrefix(trimmed, "markdown"):
		text = strings.TrimSpace(bareMarkdownWord.ReplaceAllString(trimmed, ""))
	}

	for _, marker := range reflectionMarkers {
		if loc := marker.FindStringIndex(text); loc != nil {
			text = strings.TrimSpace(text[loc[1]:])
			break
		}
	}

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
