package service

import (
	"fmt"
	"sort"
	"strings"

	"housematch/internal/config"
	"housematch/internal/model"
)

// Explainer renders human-readable match reasons from the sub-scores
// the matcher produced. Only dimensions that genuinely helped a house
// (sub-score above neutral) get a reason.
type Explainer struct {
	cfg config.MatchConfig
}

// NewExplainer creates a reason renderer.
func NewExplainer(cfg config.MatchConfig) *Explainer {
	return &Explainer{cfg: cfg}
}

type contribution struct {
	weighted float64
	reason   string
}

// Explain returns up to MaxReasons strings ordered by weighted
// contribution, strongest first.
func (e *Explainer) Explain(profile *model.PreferenceProfile, house *model.House, sub model.SubScores) []string {
	var contribs []contribution

	if sub.Price > 0.5 && profile.HasPrice() {
		contribs = append(contribs, contribution{
			weighted: e.cfg.WeightPrice * sub.Price,
			reason:   priceReason(profile, house),
		})
	}
	if sub.Area > 0.5 && profile.HasArea() {
		contribs = append(contribs, contribution{
			weighted: e.cfg.WeightArea * sub.Area,
			reason:   areaReason(house),
		})
	}
	if sub.Bedrooms > 0.5 && profile.Bedrooms != nil && house.Bedrooms != nil {
		contribs = append(contribs, contribution{
			weighted: e.cfg.WeightBedrooms * sub.Bedrooms,
			reason:   fmt.Sprintf("Has %d bedrooms, as requested", *house.Bedrooms),
		})
	}
	if sub.Tags > 0.5 && len(profile.Tags) > 0 {
		contribs = append(contribs, contribution{
			weighted: e.cfg.WeightTags * sub.Tags,
			reason:   tagReason(profile.Tags, house.Badges),
		})
	}

	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].weighted > contribs[j].weighted
	})

	if len(contribs) > e.cfg.MaxReasons {
		contribs = contribs[:e.cfg.MaxReasons]
	}

	reasons := make([]string, 0, len(contribs))
	for _, c := range contribs {
		reasons = append(reasons, c.reason)
	}
	return reasons
}

func priceReason(profile *model.PreferenceProfile, house *model.House) string {
	if house.Price != nil && profile.PriceMax != nil && *house.Price <= *profile.PriceMax {
		return "Price fits your budget"
	}
	return "Price is close to your budget"
}

func areaReason(house *model.House) string {
	if house.Area != nil {
		return fmt.Sprintf("Area of %.0f m² matches what you asked for", *house.Area)
	}
	return "Area matches what you asked for"
}

func tagReason(want []string, badges []string) string {
	badgeSet := make(map[string]bool, len(badges))
	for _, b := range badges {
		badgeSet[strings.ToLower(strings.TrimSpace(b))] = true
	}

	var matched []string
	for _, t := range want {
		if badgeSet[strings.ToLower(t)] {
			matched = append(matched, t)
		}
	}
	if len(matched) == 0 {
		return "Matches your style"
	}
	return "Matches your style: " + strings.Join(matched, ", ")
}
