package model

import "time"

// ConversationState enumerates the states of the elicitation machine.
// Sessions only move forward; Complete and Aborted are terminal.
type ConversationState string

// Asking a question and awaiting its answer collapse into one persisted
// state: the question is emitted in the same call that stores the
// session, so only awaiting_answer is ever observable.
const (
	StateStarted        ConversationState = "started"
	StateAwaitingAnswer ConversationState = "awaiting_answer"
	StateComplete       ConversationState = "complete"
	StateAborted        ConversationState = "aborted"
)

// HistoryEntry records one asked question and the raw answer given.
type HistoryEntry struct {
	Dimension Dimension `json:"dimension"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer,omitempty"`
	AskedAt   time.Time `json:"asked_at"`
}

// ConversationSession is the per-user elicitation state. It is a plain
// serializable record so it can be persisted and resumed across process
// restarts.
type ConversationSession struct {
	ID             string            `json:"id"`
	UserID         int64             `json:"user_id"`
	State          ConversationState `json:"state"`
	DimensionIndex int               `json:"dimension_index"`
	History        []HistoryEntry    `json:"history"`
	Profile        PreferenceProfile `json:"profile"`
	Retries        int               `json:"retries"`
	// Source records which path completed the session, so results
	// regenerated later keep the right flag.
	Source       RecommendationSource `json:"source,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	LastActivity time.Time            `json:"last_activity"`
}

// Terminal reports whether the session can no longer advance.
func (s *ConversationSession) Terminal() bool {
	return s.State == StateComplete || s.State == StateAborted
}

// Clone returns a deep copy safe to hand across goroutines.
func (s *ConversationSession) Clone() *ConversationSession {
	out := *s
	out.Profile = s.Profile.Clone()
	if s.History != nil {
		out.History = append([]HistoryEntry(nil), s.History...)
	}
	return &out
}
