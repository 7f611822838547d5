package alerts

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// modelFamily defines a group of model identifiers that should be
// treated as the same model for alert deduplication.
type modelFamily struct {
	name     string   // canonical family name used for hashing
	prefixes []string // model name prefixes that belong to this family
}

// knownFamilies lists model naming families whose dated and sized
// variants should normalize to a single canonical form.
var knownFamilies = []modelFamily{
	{
		name: "gpt-codex",
		prefixes: []string{
			"gpt-5-codex",
			"gpt-4-codex",
			"codex",
		},
	},
	{
		name: "claude",
		prefixes: []string{
			"claude-sonnet",
			"claude-opus",
			"claude-haiku",
			"claude-3",
		},
	},
	{
		name: "gemini",
		prefixes: []string{
			"gemini-pro",
			"gemini-flash",
			"gemini-2",
		},
	},
	{
		name: "copilot",
		prefixes: []string{
			"copilot",
			"github-copilot",
		},
	},
}

// NormalizeModel groups model identifier variants by prefix matching
// against known model families, returning a stable SHA-256 hash.
//
// Dated and sized variants of the same family (e.g. claude-sonnet-4-5
// and claude-opus-4) map to the same hash, so a high-rejection alert for
// one variant suppresses re-firing for its siblings. Unknown models are
// hashed individually using their full identifier.
//
// An empty model name returns an empty string.
func NormalizeModel(model string) string {
	if model == "" {
		return ""
	}

	trimmed := strings.ToLower(strings.TrimSpace(model))
	if trimmed == "" {
		return ""
	}

	for _, family := range knownFamilies {
		for _, prefix := range family.prefixes {
			if matchesPrefix(trimmed, prefix) {
				return hashString(family.name)
			}
		}
	}

	// Unknown model: hash the full identifier.
	return hashString(trimmed)
}

// matchesPrefix returns true if model matches the given prefix. The
// match is satisfied if model equals the prefix exactly, or starts with
// the prefix followed by a separator (indicating a version or size
// suffix).
func matchesPrefix(model, prefix string) bool {
	if model == prefix {
		return true
	}
	if len(model) > len(prefix) && strings.HasPrefix(model, prefix) {
		next := model[len(prefix)]
		return next == '-' || next == '.' || next == ':'
	}
	return false
}

// hashString returns the hex-encoded SHA-256 hash of s.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
