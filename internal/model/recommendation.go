package model

import "time"

// RecommendationSource tells whether a result came from the model-driven
// conversation path or from the deterministic mock path.
type RecommendationSource string

const (
	SourceModel RecommendationSource = "model"
	SourceMock  RecommendationSource = "mock"
)

// SubScores holds the per-dimension normalized [0,1] contributions to a
// house's final score. The matcher fills it, the explainer reads it.
type SubScores struct {
	Price    float64 `json:"price"`
	Area     float64 `json:"area"`
	Bedrooms float64 `json:"bedrooms"`
	Tags     float64 `json:"tags"`
}

// MatchCandidate is one scored house. Transient: regenerated per
// request, never persisted.
type MatchCandidate struct {
	House     House     `json:"house"`
	Score     int       `json:"score"`
	Reasons   []string  `json:"reasons"`
	SubScores SubScores `json:"-"`
}

// RecommendationResult is the assembled response. Candidate ordering is
// final: callers must not re-sort it.
type RecommendationResult struct {
	Candidates  []MatchCandidate     `json:"candidates"`
	Source      RecommendationSource `json:"source"`
	Profile     PreferenceProfile    `json:"profile"`
	GeneratedAt time.Time            `json:"generated_at"`
}
