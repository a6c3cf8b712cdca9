package service

import (
	"testing"

	"housematch/internal/config"
	"housematch/internal/model"
)

func testMatchConfig() config.MatchConfig {
	return config.MatchConfig{
		WeightPrice:    0.35,
		WeightArea:     0.25,
		WeightBedrooms: 0.25,
		WeightTags:     0.15,
		MaxDeviation:   1.0,
		BedroomPenalty: 0.25,
		MaxReasons:     3,
		DefaultLimit:   3,
		MaxLimit:       10,
	}
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func testHouses() []model.House {
	return []model.House{
		{ID: 1, Name: "Lakeside", Price: fptr(4_000_000), Area: fptr(120), Bedrooms: iptr(3), Badges: []string{"modern", "garden"}},
		{ID: 2, Name: "Old Town", Price: fptr(10_000_000), Area: fptr(200), Bedrooms: iptr(5), Badges: []string{"classic", "luxury"}},
		{ID: 3, Name: "Compact", Price: fptr(2_500_000), Area: fptr(70), Bedrooms: iptr(2), Badges: []string{"minimalist"}},
		{ID: 4, Name: "Family Manor", Price: fptr(4_500_000), Area: fptr(150), Bedrooms: iptr(4), Badges: []string{"family", "garden"}},
		{ID: 5, Name: "Bare Plot", URL: "http://example.com/5"},
	}
}

func TestNewMatcherRejectsBadWeights(t *testing.T) {
	cfg := testMatchConfig()
	cfg.WeightPrice = 0.5 // sum becomes 1.15

	_, err := NewMatcher(cfg)
	if err == nil {
		t.Fatal("expected error for weights not summing to 1.0")
	}
	if !model.IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestMatchScoresInRange(t *testing.T) {
	m, err := NewMatcher(testMatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	profile := &model.PreferenceProfile{
		PriceMin: fptr(3_000_000),
		PriceMax: fptr(5_000_000),
		AreaMin:  fptr(100),
		AreaMax:  fptr(160),
		Bedrooms: iptr(3),
		Tags:     []string{"modern", "garden"},
	}

	candidates := m.Match(profile, testHouses(), 0)
	if len(candidates) != len(testHouses()) {
		t.Fatalf("expected %d candidates, got %d", len(testHouses()), len(candidates))
	}
	for _, c := range candidates {
		if c.Score < 0 || c.Score > 100 {
			t.Errorf("house %d score %d out of [0,100]", c.House.ID, c.Score)
		}
	}
}

func TestMatchOrdering(t *testing.T) {
	m, err := NewMatcher(testMatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	profile := &model.PreferenceProfile{
		PriceMin: fptr(3_000_000),
		PriceMax: fptr(5_000_000),
		Bedrooms: iptr(3),
		Tags:     []string{"modern", "garden"},
	}

	candidates := m.Match(profile, testHouses(), 0)
	for i := 1; i < len(candidates); i++ {
		prev, cur := candidates[i-1], candidates[i]
		if cur.Score > prev.Score {
			t.Errorf("ordering broken: house %d (%d) after house %d (%d)",
				cur.House.ID, cur.Score, prev.House.ID, prev.Score)
		}
		if cur.Score == prev.Score && cur.House.ID < prev.House.ID {
			t.Errorf("tie-break broken: house %d before house %d", prev.House.ID, cur.House.ID)
		}
	}
}

func TestMatchLimit(t *testing.T) {
	m, err := NewMatcher(testMatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	candidates := m.Match(&model.PreferenceProfile{}, testHouses(), 2)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
}

func TestRangeScore(t *testing.T) {
	m, err := NewMatcher(testMatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		lo    *float64
		hi    *float64
		value *float64
		want  float64
	}{
		{"both bounds unset", nil, nil, fptr(4_000_000), 0.5},
		{"house value unknown", fptr(3_000_000), fptr(5_000_000), nil, 0.5},
		{"inside range", fptr(3_000_000), fptr(5_000_000), fptr(4_000_000), 1.0},
		{"at lower bound", fptr(3_000_000), fptr(5_000_000), fptr(3_000_000), 1.0},
		{"at upper bound", fptr(3_000_000), fptr(5_000_000), fptr(5_000_000), 1.0},
		{"twice the max is floor", fptr(3_000_000), fptr(5_000_000), fptr(10_000_000), 0.0},
		{"halfway above max", fptr(3_000_000), fptr(4_000_000), fptr(6_000_000), 0.5},
		{"open lower side satisfied", nil, fptr(5_000_000), fptr(1_000_000), 1.0},
		{"open upper side satisfied", fptr(3_000_000), nil, fptr(9_000_000), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.rangeScore(tt.lo, tt.hi, tt.value)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("rangeScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBedroomScore(t *testing.T) {
	m, err := NewMatcher(testMatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want *int
		have *int
		exp  float64
	}{
		{"unset preference", nil, iptr(3), 0.5},
		{"unknown house value", iptr(3), nil, 0.5},
		{"exact match", iptr(3), iptr(3), 1.0},
		{"off by one", iptr(3), iptr(4), 0.75},
		{"off by two below", iptr(4), iptr(2), 0.5},
		{"far off floors at zero", iptr(2), iptr(8), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.bedroomScore(tt.want, tt.have)
			if diff := got - tt.exp; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("bedroomScore() = %v, want %v", got, tt.exp)
			}
		})
	}
}

func TestTagScore(t *testing.T) {
	tests := []struct {
		name   string
		want   []string
		badges []string
		exp    float64
	}{
		{"no preference", nil, []string{"modern"}, 0.5},
		{"house has no badges", []string{"modern"}, nil, 0.5},
		{"full overlap", []string{"modern", "garden"}, []string{"Modern", "Garden"}, 1.0},
		{"half overlap", []string{"modern"}, []string{"modern", "garden"}, 0.5},
		{"disjoint", []string{"modern"}, []string{"classic"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tagScore(tt.want, tt.badges)
			if diff := got - tt.exp; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("tagScore() = %v, want %v", got, tt.exp)
			}
		})
	}
}

func TestMatchEmptyProfileIsNeutral(t *testing.T) {
	m, err := NewMatcher(testMatchConfig())
	if err != nil {
		t.Fatal(err)
	}

	candidates := m.Match(&model.PreferenceProfile{}, testHouses(), 0)
	for _, c := range candidates {
		if c.Score != 50 {
			t.Errorf("house %d: empty profile should score 50, got %d", c.House.ID, c.Score)
		}
	}
}
