package provider

import (
	"strings"

	"go-htr-bench/internal/encoder"
)

const mib = 1024 * 1024

// policyRule binds a model-family predicate to an encoding policy.
// Rules are evaluated in declaration order; the first match wins and a
// default policy backstops the table.
type policyRule struct {
	family  string
	matches func(modelID string) bool
	policy  encoder.Policy
}

var policyRules = []policyRule{
	{
		family:  "mistral",
		matches: func(m string) bool { return strings.Contains(m, "mistralai") },
		policy:  encoder.Policy{MaxBytes: 2 * mib},
	},
	{
		// Claude enforces an 8000px edge limit; 7500 leaves headroom, and
		// the byte budget sits below the documented 5MB ceiling.
		family: "claude",
		matches: func(m string) bool {
			return strings.Contains(m, "anthropic") || strings.Contains(m, "claude")
		},
		policy: encoder.Policy{MaxBytes: 4 * mib, MaxDimension: 7500},
	},
	{
		family: "llama-pixtral",
		matches: func(m string) bool {
			lower := strings.ToLower(m)
			return strings.Contains(lower, "llama") || strings.Contains(lower, "pixtral")
		},
		policy: encoder.Policy{MaxBytes: 3 * mib, MaxDimension: 6000},
	},
}

var defaultPolicy = encoder.Policy{MaxBytes: 5 * mib}

// SelectPolicy returns the encoding policy for a model id.
func SelectPolicy(modelID string) encoder.Policy {
	for _, rule := range policyRules {
		if rule.matches(modelID) {
			return rule.policy
		}
	}
	return defaultPolicy
}

// Claude compliance double-check: if a first-pass payload still sits
// above the empirical safety threshold, re-encode under this stricter
// refinement before sending.
var claudeRetryPolicy = encoder.Policy{MaxBytes: 4 * mib, MaxDimension: 6000}

const claudeSafetyThreshold = 49 * mib / 10 // 4.9MB

// isClaudeFamily reports whether the stricter second-pass check applies.
func isClaudeFamily(modelID string) bool {
	return strings.Contains(modelID, "anthropic") || strings.Contains(modelID, "claude")
}

// needsInstructionText reports whether the model family requires an
// explicit leading text instruction alongside the image. Llama and
// Pixtral models return empty transcriptions without it.
func needsInstructionText(modelID string) bool {
	lower := strings.ToLower(modelID)
	return strings.Contains(lower, "llama") || strings.Contains(lower, "pixtral")
}
