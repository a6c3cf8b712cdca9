package service

import (
	"context"
	"errors"
	"testing"

	"housematch/internal/catalog"
	"housematch/internal/model"

	"go.uber.org/zap"
)

func newTestRecommender(t *testing.T) (*Recommender, *catalog.MemoryCatalog) {
	t.Helper()

	cat := catalog.NewMemoryCatalog(testHouses())
	matcher, err := NewMatcher(testMatchConfig())
	if err != nil {
		t.Fatal(err)
	}
	return NewRecommender(cat, cat, matcher, NewExplainer(testMatchConfig()), NewMockProvider(), testMatchConfig(), zap.NewNop()), cat
}

func TestMockRecommendationsEndToEnd(t *testing.T) {
	r, _ := newTestRecommender(t)
	ctx := context.Background()

	first, err := r.GetMockRecommendations(ctx, 42, 7, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Candidates) != 3 {
		t.Fatalf("expected exactly 3 candidates, got %d", len(first.Candidates))
	}
	if first.Source != model.SourceMock {
		t.Errorf("expected mock source, got %s", first.Source)
	}

	second, err := r.GetMockRecommendations(ctx, 42, 7, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Candidates {
		a, b := first.Candidates[i], second.Candidates[i]
		if a.House.ID != b.House.ID || a.Score != b.Score {
			t.Errorf("run not reproducible at position %d: house %d/%d, score %d/%d",
				i, a.House.ID, b.House.ID, a.Score, b.Score)
		}
	}
}

func TestRecommenderClampsLimit(t *testing.T) {
	r, _ := newTestRecommender(t)
	ctx := context.Background()

	result, err := r.GetMockRecommendations(ctx, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != testMatchConfig().DefaultLimit {
		t.Errorf("zero limit should fall back to default %d, got %d",
			testMatchConfig().DefaultLimit, len(result.Candidates))
	}

	result, err = r.GetMockRecommendations(ctx, 1, 1, 500)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) > testMatchConfig().MaxLimit {
		t.Errorf("limit not capped at %d, got %d", testMatchConfig().MaxLimit, len(result.Candidates))
	}
}

func TestFromProfileAttachesReasons(t *testing.T) {
	r, _ := newTestRecommender(t)

	profile := &model.PreferenceProfile{
		PriceMin: fptr(3_000_000),
		PriceMax: fptr(5_000_000),
		Bedrooms: iptr(3),
		Tags:     []string{"modern", "garden"},
	}
	result, err := r.FromProfile(context.Background(), profile, model.SourceModel, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) == 0 {
		t.Fatal("expected candidates")
	}
	top := result.Candidates[0]
	if len(top.Reasons) == 0 {
		t.Errorf("top candidate (house %d, score %d) has no reasons", top.House.ID, top.Score)
	}
}

func TestLogView(t *testing.T) {
	r, cat := newTestRecommender(t)
	ctx := context.Background()

	if err := r.LogView(ctx, 42, 1); err != nil {
		t.Fatal(err)
	}
	views := cat.Views()
	if len(views) != 1 || views[0].UserID != 42 || views[0].HouseID != 1 {
		t.Fatalf("view not recorded: %+v", views)
	}

	if err := r.LogView(ctx, 42, 999); !errors.Is(err, model.ErrHouseNotFound) {
		t.Errorf("expected ErrHouseNotFound for unknown house, got %v", err)
	}
}
