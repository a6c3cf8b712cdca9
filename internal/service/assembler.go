package service

import (
	"time"

	"housematch/internal/model"
)

// Assemble packages scored candidates into a response. Pure: it does
// not touch the store, the catalog, or the clock source beyond stamping
// the generation time.
func Assemble(candidates []model.MatchCandidate, profile model.PreferenceProfile, source model.RecommendationSource) *model.RecommendationResult {
	if candidates == nil {
		candidates = []model.MatchCandidate{}
	}
	return &model.RecommendationResult{
		Candidates:  candidates,
		Source:      source,
		Profile:     profile.Clone(),
		GeneratedAt: time.Now().UTC(),
	}
}
