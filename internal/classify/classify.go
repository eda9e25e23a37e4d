// Package classify maps free text to structured tags (expertise areas,
// industries, roles, help topics) with a confidence score. The primary
// path is an LLM call; a deterministic keyword heuristic covers remote
// failures so callers never hard-fail, only degrade.
package classify

import (
	"context"
	"log/slog"
	"strings"
)

type Kind string

const (
	KindRole       Kind = "role"
	KindIndustry   Kind = "industry"
	KindExpertise  Kind = "expertise"
	KindHelpTopics Kind = "help_topics"
)

// Source records which path produced a classification.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

type Classification struct {
	Tags       []string `json:"tags"`
	Role       string   `json:"role,omitempty"`
	Urgency    string   `json:"urgency,omitempty"`
	Confidence float64  `json:"confidence"` // in [0,1]
	Source     Source   `json:"source"`
}

// Remote is the LLM-backed classification call.
type Remote interface {
	Classify(ctx context.Context, kind Kind, text string) (Classification, error)
}

// MinInputLength returns the minimum text length worth a paid
// classification call for the given kind.
func MinInputLength(kind Kind) int {
	switch kind {
	case KindRole, KindIndustry:
		return 5
	default:
		return 10
	}
}

// Classifier is the total classification function: short inputs
// short-circuit, remote failures fall back to the keyword heuristic.
type Classifier struct {
	remote Remote
}

// New builds a Classifier. remote may be nil, in which case only the
// keyword heuristic runs.
func New(remote Remote) *Classifier {
	return &Classifier{remote: remote}
}

// Classify never fails: it returns an empty zero-confidence result for
// trivial input and a keyword-heuristic result when the remote call
// errors. Fallback results are never retried against the model.
func (c *Classifier) Classify(ctx context.Context, kind Kind, text string) Classification {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinInputLength(kind) {
		return Classification{Tags: []string{}, Confidence: 0, Source: SourceNone}
	}

	if c.remote != nil {
		result, err := c.remote.Classify(ctx, kind, trimmed)
		if err == nil {
			result.Source = SourceModel
			result.Confidence = clamp01(result.Confidence)
			if result.Tags == nil {
				result.Tags = []string{}
			}
			return result
		}
		slog.WarnContext(ctx, "remote classification failed, using keyword fallback",
			"error", err,
			"kind", string(kind))
	}

	return keywordFallback(kind, trimmed)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
