// Package catalog derives human-facing model metadata (publisher,
// license type, display name) from model identifiers. The heuristics are
// substring-based on purpose: benchmark model ids follow the
// "vendor/model-name" gateway convention.
package catalog

import "strings"

// TypeLibre and TypeProprietaire are the two license classes reported in
// summaries and the viewer catalog.
const (
	TypeLibre        = "libre"
	TypeProprietaire = "propriétaire"
)

// proprietaryKeywords mark vendors whose models are closed-weight.
var proprietaryKeywords = []string{
	"openai", "gpt", "anthropic", "claude", "google", "gemini",
	"amazon", "nova", "x-ai", "grok",
}

// EditorInfo holds publisher metadata for one model.
type EditorInfo struct {
	Editeur    string
	ModeleType string
}

// editorRules map vendor substrings to publisher info, evaluated in order.
var editorRules = []struct {
	keyword string
	info    EditorInfo
}{
	{"amazon", EditorInfo{"Amazon", TypeProprietaire}},
	{"openai", EditorInfo{"OpenAI", TypeProprietaire}},
	{"gpt", EditorInfo{"OpenAI", TypeProprietaire}},
	{"google", EditorInfo{"Google", TypeProprietaire}},
	{"gemini", EditorInfo{"Google", TypeProprietaire}},
	{"anthropic", EditorInfo{"Anthropic", TypeProprietaire}},
	{"claude", EditorInfo{"Anthropic", TypeProprietaire}},
	{"x-ai", EditorInfo{"xAI", TypeProprietaire}},
	{"grok", EditorInfo{"xAI", TypeProprietaire}},
	{"mistral", EditorInfo{"Mistral AI", TypeLibre}},
	{"pixtral", EditorInfo{"Mistral AI", TypeLibre}},
	{"meta", EditorInfo{"Meta", TypeLibre}},
	{"llama", EditorInfo{"Meta", TypeLibre}},
	{"qwen", EditorInfo{"Alibaba", TypeLibre}},
	{"tesseract", EditorInfo{"Tesseract", TypeLibre}},
	{"transkribus", EditorInfo{"Transkribus", TypeProprietaire}},
}

// Editor returns publisher metadata for a model id, defaulting to
// ("Autre", libre) for unrecognized vendors.
func Editor(modelID string) EditorInfo {
	lower := strings.ToLower(modelID)
	for _, rule := range editorRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.info
		}
	}
	return EditorInfo{"Autre", TypeLibre}
}

// LicenseType classifies a model id as libre or propriétaire using the
// proprietary vendor keyword list.
func LicenseType(modelID string) string {
	lower := strings.ToLower(modelID)
	for _, keyword := range proprietaryKeywords {
		if strings.Contains(lower, keyword) {
			return TypeProprietaire
		}
	}
	return TypeLibre
}

// nameMapping fixes up display names the generic capitalization rule
// mangles. Patterns are matched case-insensitively against the
// capitalized name.
var nameMapping = []struct {
	pattern     string
	replacement string
}{
	{"openai gpt 4o mini", "GPT-4o Mini"},
	{"openai gpt 4o", "GPT-4o"},
	{"anthropic claude 3 5 sonnet", "Claude 3.5 Sonnet"},
	{"anthropic claude 3 7 sonnet", "Claude 3.7 Sonnet"},
	{"google gemini 2 0 flash", "Gemini 2.0 Flash"},
	{"mistralai pixtral", "Mistral Pixtral"},
	{"meta llama", "Meta Llama"},
	{"qwen vl", "Qwen VL"},
}

// DisplayName turns a model id into a readable name: separators become
// spaces, words are capitalized, then known special cases are applied.
func DisplayName(modelID string) string {
	name := strings.ReplaceAll(modelID, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "/", " ")

	words := strings.Fields(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	name = strings.Join(words, " ")

	lower := strings.ToLower(name)
	for _, m := range nameMapping {
		if idx := strings.Index(lower, m.pattern); idx >= 0 {
			name = name[:idx] + m.replacement + name[idx+len(m.pattern):]
			break
		}
	}
	return name
}
