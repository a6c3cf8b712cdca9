package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"housematch/internal/config"
	"housematch/internal/model"
	"housematch/internal/session"

	"go.uber.org/zap"
)

// questions is the fixed elicitation script, one entry per dimension in
// asking order.
var questions = map[model.Dimension]string{
	model.DimensionPrice:    "(1/5) What budget do you have in mind for your future house?",
	model.DimensionArea:     "(2/5) How much living space would suit you, in square meters?",
	model.DimensionBedrooms: "(3/5) How many bedrooms do you need?",
	model.DimensionTags:     "(4/5) What style and features matter to you? For example modern, cozy, garden or smart-home.",
	model.DimensionNotes:    "(5/5) Anything else that matters to you in a house?",
}

const retryPreamble = "Sorry, I could not make sense of that. "

// TurnResult is what one conversation operation hands back: either the
// next question to show the user, or the finished recommendations.
type TurnResult struct {
	SessionID    string                      `json:"session_id"`
	State        model.ConversationState     `json:"state"`
	Question     string                      `json:"question,omitempty"`
	Result       *model.RecommendationResult `json:"result,omitempty"`
	FallbackHint bool                        `json:"fallback_hint,omitempty"`
}

// Conversation drives the elicitation state machine. One session per
// user; operations on the same session are serialized, concurrent
// callers get ErrSessionBusy instead of queueing.
type Conversation struct {
	store       session.Store
	locks       *session.KeyedLock
	extractor   Extractor
	recommender *Recommender
	cfg         config.ConversationConfig
	mockMode    bool
	logger      *zap.Logger
}

// NewConversation creates the conversation manager. With mockMode set,
// Start skips elicitation entirely and answers from the deterministic
// profile generator.
func NewConversation(store session.Store, extractor Extractor, recommender *Recommender, cfg config.ConversationConfig, mockMode bool, logger *zap.Logger) *Conversation {
	return &Conversation{
		store:       store,
		locks:       session.NewKeyedLock(),
		extractor:   extractor,
		recommender: recommender,
		cfg:         cfg,
		mockMode:    mockMode,
		logger:      logger,
	}
}

// Start begins a new conversation for the user. An existing unfinished
// session is discarded and replaced.
func (c *Conversation) Start(ctx context.Context, userID int64) (*TurnResult, error) {
	id := sessionID(userID)
	if !c.locks.TryAcquire(id) {
		return nil, model.ErrSessionBusy
	}
	defer c.locks.Release(id)

	if c.mockMode {
		return c.startMock(ctx, userID, id)
	}

	now := time.Now().UTC()
	sess := &model.ConversationSession{
		ID:           id,
		UserID:       userID,
		State:        model.StateStarted,
		CreatedAt:    now,
		LastActivity: now,
	}
	c.ask(sess, now)

	if err := c.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	c.logger.Info("conversation started", zap.Int64("user_id", userID))
	return &TurnResult{
		SessionID: id,
		State:     sess.State,
		Question:  sess.History[len(sess.History)-1].Question,
	}, nil
}

// startMock short-circuits the survey: a full profile is generated and
// scored immediately, and the stored session is already complete.
func (c *Conversation) startMock(ctx context.Context, userID int64, id string) (*TurnResult, error) {
	profile := c.recommender.mock.Generate(userID, c.cfg.MockSeed)
	result, err := c.recommender.FromProfile(ctx, &profile, model.SourceMock, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &model.ConversationSession{
		ID:             id,
		UserID:         userID,
		State:          model.StateComplete,
		DimensionIndex: len(model.Dimensions),
		Profile:        profile,
		Source:         model.SourceMock,
		CreatedAt:      now,
		LastActivity:   now,
	}
	if err := c.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	c.logger.Info("mock conversation completed", zap.Int64("user_id", userID))
	return &TurnResult{SessionID: id, State: model.StateComplete, Result: result}, nil
}

// Advance feeds one user answer into the session and returns the next
// question or, after the last dimension, the recommendations.
func (c *Conversation) Advance(ctx context.Context, userID int64, answer string) (*TurnResult, error) {
	id := sessionID(userID)
	if !c.locks.TryAcquire(id) {
		return nil, model.ErrSessionBusy
	}
	defer c.locks.Release(id)

	sess, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, model.ErrSessionNotFound
	}
	if sess.State == model.StateAborted {
		return nil, model.ErrSessionExpired
	}
	if sess.State == model.StateComplete {
		source := sess.Source
		if source == "" {
			source = model.SourceModel
		}
		result, err := c.recommender.FromProfile(ctx, &sess.Profile, source, 0)
		if err != nil {
			return nil, err
		}
		return &TurnResult{SessionID: id, State: sess.State, Result: result}, nil
	}

	now := time.Now().UTC()
	if now.Sub(sess.LastActivity) > c.cfg.IdleTimeout {
		c.abort(ctx, sess)
		return nil, model.ErrSessionExpired
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return &TurnResult{
			SessionID: id,
			State:     sess.State,
			Question:  sess.History[len(sess.History)-1].Question,
		}, nil
	}

	dim := model.Dimensions[sess.DimensionIndex]
	sess.History[len(sess.History)-1].Answer = answer

	update, extractErr := c.extractor.Extract(ctx, sess.History[:len(sess.History)-1], dim, answer)

	// The extraction call can outlive the session: a cancel or reap on
	// another worker may have retired it meanwhile. Reload and discard
	// the update if the session moved on.
	current, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}
	if current == nil || current.Terminal() || current.DimensionIndex != sess.DimensionIndex {
		c.logger.Warn("discarding extraction for retired session", zap.Int64("user_id", userID))
		return nil, model.ErrSessionExpired
	}

	if extractErr != nil {
		return c.handleExtractionFailure(ctx, sess, extractErr, now)
	}

	sess.Profile.Merge(update)
	sess.Retries = 0
	sess.DimensionIndex++
	sess.LastActivity = now

	if sess.DimensionIndex >= len(model.Dimensions) {
		sess.State = model.StateComplete
		sess.Source = model.SourceModel
		if err := c.store.Put(ctx, sess); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
		result, err := c.recommender.FromProfile(ctx, &sess.Profile, model.SourceModel, 0)
		if err != nil {
			return nil, err
		}
		c.logger.Info("conversation completed", zap.Int64("user_id", userID))
		return &TurnResult{SessionID: id, State: sess.State, Result: result}, nil
	}

	c.ask(sess, now)
	if err := c.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &TurnResult{
		SessionID: id,
		State:     sess.State,
		Question:  sess.History[len(sess.History)-1].Question,
	}, nil
}

// handleExtractionFailure consumes one retry from the budget. Budget
// exhausted means the conversation aborts with a fallback hint toward
// the mock demo path.
func (c *Conversation) handleExtractionFailure(ctx context.Context, sess *model.ConversationSession, extractErr error, now time.Time) (*TurnResult, error) {
	reason := model.ExtractionReason("unknown")
	if ee, ok := model.AsExtractionError(extractErr); ok {
		reason = ee.Reason
	}
	c.logger.Warn("extraction failed",
		zap.Int64("user_id", sess.UserID),
		zap.String("reason", string(reason)),
		zap.Int("retries", sess.Retries+1),
		zap.Error(extractErr))

	sess.Retries++
	sess.LastActivity = now

	if sess.Retries >= c.cfg.MaxRetries {
		sess.State = model.StateAborted
		sess.Profile = model.PreferenceProfile{}
		if err := c.store.Put(ctx, sess); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
		c.logger.Info("conversation aborted after retry budget", zap.Int64("user_id", sess.UserID))
		return &TurnResult{SessionID: sess.ID, State: sess.State, FallbackHint: true}, nil
	}

	// A fresh entry per re-ask keeps the failed answer in the history
	// log instead of being overwritten by the next attempt.
	dim := model.Dimensions[sess.DimensionIndex]
	sess.History = append(sess.History, model.HistoryEntry{
		Dimension: dim,
		Question:  retryPreamble + questions[dim],
		AskedAt:   now,
	})
	if err := c.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &TurnResult{
		SessionID: sess.ID,
		State:     sess.State,
		Question:  sess.History[len(sess.History)-1].Question,
	}, nil
}

// Cancel aborts the user's session. Idempotent on already-finished
// sessions.
func (c *Conversation) Cancel(ctx context.Context, userID int64) error {
	id := sessionID(userID)
	if !c.locks.TryAcquire(id) {
		return model.ErrSessionBusy
	}
	defer c.locks.Release(id)

	sess, err := c.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return model.ErrSessionNotFound
	}
	if sess.Terminal() {
		return nil
	}

	c.abort(ctx, sess)
	c.logger.Info("conversation cancelled", zap.Int64("user_id", userID))
	return nil
}

// StartReaper aborts idle sessions in the background until ctx is done.
func (c *Conversation) StartReaper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.cfg.ReapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.reapIdle(ctx)
			}
		}
	}()
}

func (c *Conversation) reapIdle(ctx context.Context) {
	ids, err := c.store.List(ctx)
	if err != nil {
		c.logger.Warn("reaper failed to list sessions", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	for _, id := range ids {
		if !c.locks.TryAcquire(id) {
			continue
		}
		sess, err := c.store.Get(ctx, id)
		if err == nil && sess != nil && !sess.Terminal() && now.Sub(sess.LastActivity) > c.cfg.IdleTimeout {
			c.abort(ctx, sess)
			c.logger.Info("reaped idle conversation", zap.Int64("user_id", sess.UserID))
		}
		c.locks.Release(id)
	}
}

// abort retires a session. History stays for diagnostics; the partial
// profile is discarded so it can never leak into a later match.
func (c *Conversation) abort(ctx context.Context, sess *model.ConversationSession) {
	sess.State = model.StateAborted
	sess.Profile = model.PreferenceProfile{}
	sess.LastActivity = time.Now().UTC()
	if err := c.store.Put(ctx, sess); err != nil {
		c.logger.Warn("failed to persist aborted session", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

// ask appends the next question to the history and moves the machine to
// awaiting-answer.
func (c *Conversation) ask(sess *model.ConversationSession, now time.Time) {
	dim := model.Dimensions[sess.DimensionIndex]
	sess.History = append(sess.History, model.HistoryEntry{
		Dimension: dim,
		Question:  questions[dim],
		AskedAt:   now,
	})
	sess.State = model.StateAwaitingAnswer
	sess.LastActivity = now
}

func sessionID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
