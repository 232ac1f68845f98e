package normalizer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain text untouched",
			input:    "le chat noir",
			expected: "le chat noir",
		},
		{
			name:     "Uncertainty markers removed",
			input:    "le [XXX] chat [XXX] noir",
			expected: "le chat noir",
		},
		{
			name:     "Closed markdown fence extracts content",
			input:    "```markdown\nle chat noir\n```",
			expected: "le chat noir",
		},
		{
			name:     "Closed generic fence extracts content",
			input:    "```\nle chat noir\n```",
			expected: "le chat noir",
		},
		{
			name:     "Markdown fence wins over surrounding prose",
			input:    "voici le resultat\n```markdown\nle chat noir\n```\nfin",
			expected: "le chat noir",
		},
		{
			name:     "Unterminated markdown fence strips opener",
			input:    "```markdown\nle chat noir",
			expected: "le chat noir",
		},
		{
			name:     "Unterminated generic fence strips opener",
			input:    "```\nle chat noir",
			expected: "le chat noir",
		},
		{
			name:     "Dangling closing fence stripped",
			input:    "le chat noir\n```",
			expected: "le chat noir",
		},
		{
			name:     "Bare markdown word stripped",
			input:    "markdown le chat noir",
			expected: "le chat noir",
		},
		{
			name:     "Reflection preamble discarded",
			input:    "Voici la transcription : le chat noir",
			expected: "le chat noir",
		},
		{
			name:     "Reflection preamble inside fence content",
			input:    "```markdown\nTranscription: le chat noir\n```",
			expected: "le chat noir",
		},
		{
			name:     "Whitespace runs collapsed",
			input:    "le   chat\n\n\tnoir  ",
			expected: "le chat noir",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "Only markers",
			input:    "[XXX] [XXX]",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"le chat noir",
		"```markdown\nle chat noir\n```",
		"```\nle [XXX] chat\n```",
		"Voici la transcription : le chat noir",
		"markdown le chat noir",
		"le chat noir\n```",
		"   des    espaces \t partout   ",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

// Reflection stripping consumes a single marker per call. Text carrying
// two markers keeps the second one after the first pass, and a second
// call strips through it. Stability is only guaranteed for output that
// no longer contains a marker phrase.
func TestNormalizeSingleReflectionPass(t *testing.T) {
	input := "Transcription: a Transcription: b"

	once := Normalize(input)
	if once != "a Transcription: b" {
		t.Fatalf("first pass = %q, want %q", once, "a Transcription: b")
	}

	twice := Normalize(once)
	if twice != "b" {
		t.Errorf("second pass = %q, want %q", twice, "b")
	}
}
