package service

import (
	"context"
	"fmt"

	"housematch/internal/catalog"
	"housematch/internal/config"
	"housematch/internal/model"

	"go.uber.org/zap"
)

// Recommender ties the catalog, matcher and explainer together. Both
// the conversation path and the mock demo path go through it, so the
// two are scored by exactly the same pipeline.
type Recommender struct {
	catalog   catalog.Catalog
	views     catalog.ViewLogger
	matcher   *Matcher
	explainer *Explainer
	mock      *MockProvider
	cfg       config.MatchConfig
	logger    *zap.Logger
}

// NewRecommender creates the recommendation pipeline.
func NewRecommender(cat catalog.Catalog, views catalog.ViewLogger, matcher *Matcher, explainer *Explainer, mock *MockProvider, cfg config.MatchConfig, logger *zap.Logger) *Recommender {
	return &Recommender{
		catalog:   cat,
		views:     views,
		matcher:   matcher,
		explainer: explainer,
		mock:      mock,
		cfg:       cfg,
		logger:    logger,
	}
}

// FromProfile scores the catalog against a profile and assembles the
// result.
func (r *Recommender) FromProfile(ctx context.Context, profile *model.PreferenceProfile, source model.RecommendationSource, limit int) (*model.RecommendationResult, error) {
	limit = r.clampLimit(limit)

	houses, err := r.catalog.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	candidates := r.matcher.Match(profile, houses, limit)
	for i := range candidates {
		candidates[i].Reasons = r.explainer.Explain(profile, &candidates[i].House, candidates[i].SubScores)
	}

	r.logger.Debug("recommendations generated",
		zap.String("source", string(source)),
		zap.Int("catalog_size", len(houses)),
		zap.Int("candidates", len(candidates)))

	return Assemble(candidates, *profile, source), nil
}

// GetMockRecommendations generates a deterministic profile for the user
// and runs it through the normal scoring pipeline.
func (r *Recommender) GetMockRecommendations(ctx context.Context, userID, seed int64, limit int) (*model.RecommendationResult, error) {
	profile := r.mock.Generate(userID, seed)
	return r.FromProfile(ctx, &profile, model.SourceMock, limit)
}

// LogView forwards a house view event to the analytics sink.
func (r *Recommender) LogView(ctx context.Context, userID, houseID int64) error {
	house, err := r.catalog.GetByID(ctx, houseID)
	if err != nil {
		return err
	}
	if house == nil {
		return model.ErrHouseNotFound
	}
	return r.views.LogView(ctx, userID, houseID)
}

func (r *Recommender) clampLimit(limit int) int {
	if limit <= 0 {
		return r.cfg.DefaultLimit
	}
	if limit > r.cfg.MaxLimit {
		return r.cfg.MaxLimit
	}
	return limit
}
