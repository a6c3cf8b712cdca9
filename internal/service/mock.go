package service

import (
	"math/rand"

	"housematch/internal/model"
)

// MockProvider generates fully populated preference profiles without
// calling any model. The same (userID, seed) pair always yields the
// same profile, so demo output is reproducible.
type MockProvider struct{}

// NewMockProvider creates a mock profile generator.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

var mockNotes = []string{
	"wants a quiet neighborhood",
	"needs a home office",
	"prefers being close to schools",
	"wants low running costs",
	"plans to host family often",
}

// Generate returns a deterministic profile for the user.
func (p *MockProvider) Generate(userID, seed int64) model.PreferenceProfile {
	rng := rand.New(rand.NewSource(seed*31 + userID))

	priceMin := float64(3_000_000 + rng.Intn(5)*1_000_000)
	priceMax := priceMin + float64(2_000_000+rng.Intn(4)*1_000_000)
	areaMin := float64(80 + rng.Intn(6)*20)
	areaMax := areaMin + float64(40+rng.Intn(4)*20)
	bedrooms := 2 + rng.Intn(4)

	// Two distinct tags from the fixed vocabulary.
	first := rng.Intn(len(AllowedTags))
	second := rng.Intn(len(AllowedTags) - 1)
	if second >= first {
		second++
	}
	tags := []string{AllowedTags[first], AllowedTags[second]}

	notes := mockNotes[rng.Intn(len(mockNotes))]

	return model.PreferenceProfile{
		PriceMin: &priceMin,
		PriceMax: &priceMax,
		AreaMin:  &areaMin,
		AreaMax:  &areaMax,
		Bedrooms: &bedrooms,
		Tags:     tags,
		Notes:    &notes,
	}
}
