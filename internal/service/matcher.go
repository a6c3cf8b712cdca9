package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"housematch/internal/config"
	"housematch/internal/model"
)

// Matcher scores houses against a preference profile with a weighted
// sum of per-dimension sub-scores. Unset dimensions score a neutral
// 0.5 so missing answers never punish a house.
type Matcher struct {
	cfg config.MatchConfig
}

// NewMatcher validates the weights and builds a matcher.
func NewMatcher(cfg config.MatchConfig) (*Matcher, error) {
	sum := cfg.WeightPrice + cfg.WeightArea + cfg.WeightBedrooms + cfg.WeightTags
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, &model.ConfigurationError{Msg: fmt.Sprintf("match weights must sum to 1.0, got %.4f", sum)}
	}
	if cfg.WeightPrice < 0 || cfg.WeightArea < 0 || cfg.WeightBedrooms < 0 || cfg.WeightTags < 0 {
		return nil, &model.ConfigurationError{Msg: "match weights must be non-negative"}
	}
	if cfg.MaxDeviation <= 0 {
		return nil, &model.ConfigurationError{Msg: "max deviation must be positive"}
	}
	return &Matcher{cfg: cfg}, nil
}

// Match scores every house, sorts by score descending with house ID as
// the tie-break, and truncates to limit. limit <= 0 means no limit.
func (m *Matcher) Match(profile *model.PreferenceProfile, houses []model.House, limit int) []model.MatchCandidate {
	candidates := make([]model.MatchCandidate, 0, len(houses))
	for _, h := range houses {
		sub := m.subScores(profile, &h)
		total := m.cfg.WeightPrice*sub.Price +
			m.cfg.WeightArea*sub.Area +
			m.cfg.WeightBedrooms*sub.Bedrooms +
			m.cfg.WeightTags*sub.Tags

		candidates = append(candidates, model.MatchCandidate{
			House:     h,
			Score:     int(math.Round(total * 100)),
			SubScores: sub,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].House.ID < candidates[j].House.ID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func (m *Matcher) subScores(p *model.PreferenceProfile, h *model.House) model.SubScores {
	return model.SubScores{
		Price:    m.rangeScore(p.PriceMin, p.PriceMax, h.Price),
		Area:     m.rangeScore(p.AreaMin, p.AreaMax, h.Area),
		Bedrooms: m.bedroomScore(p.Bedrooms, h.Bedrooms),
		Tags:     tagScore(p.Tags, h.Badges),
	}
}

// rangeScore grades a house value against a [lo, hi] preference.
// Either side of the range may be open. Outside the range, the score
// decays linearly with relative deviation and bottoms out at 0 once the
// deviation reaches MaxDeviation.
func (m *Matcher) rangeScore(lo, hi, value *float64) float64 {
	if lo == nil && hi == nil {
		return 0.5
	}
	if value == nil {
		return 0.5
	}
	v := *value

	var dev float64
	switch {
	case lo != nil && v < *lo:
		if *lo <= 0 {
			return 0
		}
		dev = (*lo - v) / *lo
	case hi != nil && v > *hi:
		if *hi <= 0 {
			return 0
		}
		dev = (v - *hi) / *hi
	default:
		return 1.0
	}

	score := 1.0 - dev/m.cfg.MaxDeviation
	if score < 0 {
		return 0
	}
	return score
}

// bedroomScore penalizes each bedroom of difference by a fixed step.
func (m *Matcher) bedroomScore(want, have *int) float64 {
	if want == nil || have == nil {
		return 0.5
	}
	diff := *want - *have
	if diff < 0 {
		diff = -diff
	}
	score := 1.0 - m.cfg.BedroomPenalty*float64(diff)
	if score < 0 {
		return 0
	}
	return score
}

// tagScore is the Jaccard similarity of the wanted tags and the house
// badges, both normalized to lower case.
func tagScore(want []string, badges []string) float64 {
	if len(want) == 0 || len(badges) == 0 {
		return 0.5
	}

	wantSet := make(map[string]bool, len(want))
	for _, t := range want {
		wantSet[strings.ToLower(strings.TrimSpace(t))] = true
	}
	badgeSet := make(map[string]bool, len(badges))
	for _, b := range badges {
		badgeSet[strings.ToLower(strings.TrimSpace(b))] = true
	}

	intersection := 0
	for t := range wantSet {
		if badgeSet[t] {
			intersection++
		}
	}
	union := len(wantSet) + len(badgeSet) - intersection
	if union == 0 {
		return 0.5
	}
	return float64(intersection) / float64(union)
}
