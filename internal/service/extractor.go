package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"housematch/internal/model"
	"housematch/internal/utils"

	"go.uber.org/zap"
)

// Extractor turns one free-text answer into a structured profile
// update for the dimension that was asked about.
type Extractor interface {
	Extract(ctx context.Context, history []model.HistoryEntry, dim model.Dimension, answer string) (*model.ProfileUpdate, error)
}

// AllowedTags is the closed vocabulary for the tags dimension. Unknown
// tags from the model are rejected, never coerced.
var AllowedTags = []string{
	"modern", "classic", "cozy", "spacious", "minimalist",
	"family", "luxury", "eco", "smart-home", "garden",
}

const extractSystemPrompt = `You are a real-estate preference extraction assistant.
The user was asked about one aspect of their ideal house. Extract ONLY what
the user stated into a JSON object. Rules:
- Respond with a single JSON object and nothing else.
- Use null or omit fields the user did not state.
- If the user declined to answer or the answer is unusable, respond with exactly {"refused": true}.
- Numeric ranges use *_min and *_max; a one-sided preference sets only one bound.
- Never invent values the user did not give.`

var dimensionPrompts = map[model.Dimension]string{
	model.DimensionPrice: `The question was about BUDGET. Extract price_min and/or price_max
as numbers in the user's currency. Fields: {"price_min": number|null, "price_max": number|null}`,
	model.DimensionArea: `The question was about HOUSE AREA in square meters. Extract
area_min and/or area_max. Fields: {"area_min": number|null, "area_max": number|null}`,
	model.DimensionBedrooms: `The question was about the NUMBER OF BEDROOMS. Extract the
desired count. Fields: {"bedrooms": integer|null}`,
	model.DimensionTags: `The question was about STYLE AND FEATURES. Map the answer onto this
fixed vocabulary and return only matching entries: ` + "modern, classic, cozy, spacious, minimalist, family, luxury, eco, smart-home, garden" + `.
Fields: {"tags": [string]}`,
	model.DimensionNotes: `The question was about ANYTHING ELSE that matters to the user.
Summarize it in one short sentence. Fields: {"notes": string|null}`,
}

const strictRetrySuffix = `
Your previous reply was not valid JSON for the requested fields. Reply again
with ONLY the JSON object, no prose, no markdown fences.`

// extractPayload is the raw shape the model is asked to produce.
type extractPayload struct {
	Refused  bool     `json:"refused,omitempty"`
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
	AreaMin  *float64 `json:"area_min,omitempty"`
	AreaMax  *float64 `json:"area_max,omitempty"`
	Bedrooms *int     `json:"bedrooms,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// LLMExtractor extracts preferences with a chat model. It retries
// transient failures itself; the conversation layer owns the re-ask
// budget.
type LLMExtractor struct {
	client ChatClient
	logger *zap.Logger
}

var _ Extractor = (*LLMExtractor)(nil)

// NewLLMExtractor creates a model-backed extractor.
func NewLLMExtractor(client ChatClient, logger *zap.Logger) *LLMExtractor {
	return &LLMExtractor{client: client, logger: logger}
}

// Extract implements Extractor. Timeouts get one backoff retry,
// malformed replies get one stricter-prompt retry, refusals are final.
func (e *LLMExtractor) Extract(ctx context.Context, history []model.HistoryEntry, dim model.Dimension, answer string) (*model.ProfileUpdate, error) {
	messages := e.buildMessages(history, dim, answer, false)

	update, err := e.call(ctx, messages, dim)
	if err == nil {
		return update, nil
	}

	extErr, ok := model.AsExtractionError(err)
	if !ok {
		return nil, err
	}

	switch extErr.Reason {
	case model.ReasonTimeout:
		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(time.Second):
		}
		e.logger.Warn("extraction timed out, retrying", zap.String("dimension", string(dim)))
		return e.call(ctx, messages, dim)
	case model.ReasonMalformed:
		e.logger.Warn("extraction returned malformed JSON, retrying with strict prompt",
			zap.String("dimension", string(dim)))
		return e.call(ctx, e.buildMessages(history, dim, answer, true), dim)
	default:
		return nil, err
	}
}

func (e *LLMExtractor) buildMessages(history []model.HistoryEntry, dim model.Dimension, answer string, strict bool) []ChatMessage {
	system := extractSystemPrompt + "\n" + dimensionPrompts[dim]
	if strict {
		system += strictRetrySuffix
	}

	messages := []ChatMessage{{Role: "system", Content: system}}
	for _, h := range history {
		messages = append(messages, ChatMessage{Role: "assistant", Content: h.Question})
		if h.Answer != "" {
			messages = append(messages, ChatMessage{Role: "user", Content: h.Answer})
		}
	}
	messages = append(messages, ChatMessage{Role: "user", Content: answer})
	return messages
}

func (e *LLMExtractor) call(ctx context.Context, messages []ChatMessage, dim model.Dimension) (*model.ProfileUpdate, error) {
	raw, err := e.client.Complete(ctx, messages)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	var payload extractPayload
	if err := utils.ParseModelJSON(raw, &payload); err != nil {
		return nil, &model.ExtractionError{Reason: model.ReasonMalformed, Err: err}
	}

	if payload.Refused {
		return nil, &model.ExtractionError{Reason: model.ReasonRefused, Err: errors.New("model reported unusable answer")}
	}

	update, err := validateUpdate(&payload, dim)
	if err != nil {
		return nil, &model.ExtractionError{Reason: model.ReasonMalformed, Err: err}
	}
	return update, nil
}

// classifyTransportError maps call failures onto retry policy. Anything
// that never reached the model (timeouts, refused connections, DNS
// failures) gets the backoff retry; a stricter prompt cannot fix a
// network, so only reply-level failures classify as malformed.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &model.ExtractionError{Reason: model.ReasonTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &model.ExtractionError{Reason: model.ReasonTimeout, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &model.ExtractionError{Reason: model.ReasonTimeout, Err: err}
	}
	return &model.ExtractionError{Reason: model.ReasonMalformed, Err: err}
}

// validateUpdate checks the payload against the requested dimension.
// The requested dimension must be present; cross-dimension fields are
// kept only when they pass the same checks.
func validateUpdate(p *extractPayload, dim model.Dimension) (*model.ProfileUpdate, error) {
	update := &model.ProfileUpdate{}

	if p.PriceMin != nil || p.PriceMax != nil {
		if err := validateRange(p.PriceMin, p.PriceMax, "price"); err != nil {
			if dim == model.DimensionPrice {
				return nil, err
			}
		} else {
			update.PriceMin = p.PriceMin
			update.PriceMax = p.PriceMax
		}
	}
	if p.AreaMin != nil || p.AreaMax != nil {
		if err := validateRange(p.AreaMin, p.AreaMax, "area"); err != nil {
			if dim == model.DimensionArea {
				return nil, err
			}
		} else {
			update.AreaMin = p.AreaMin
			update.AreaMax = p.AreaMax
		}
	}
	if p.Bedrooms != nil {
		if *p.Bedrooms < 0 || *p.Bedrooms > 10 {
			if dim == model.DimensionBedrooms {
				return nil, fmt.Errorf("bedrooms out of range: %d", *p.Bedrooms)
			}
		} else {
			update.Bedrooms = p.Bedrooms
		}
	}
	if len(p.Tags) > 0 {
		tags, err := normalizeTags(p.Tags)
		if err != nil {
			if dim == model.DimensionTags {
				return nil, err
			}
		} else {
			update.Tags = tags
		}
	}
	if p.Notes != nil {
		if note := strings.TrimSpace(*p.Notes); note != "" {
			update.Notes = &note
		}
	}

	if !dimensionPresent(update, dim) {
		return nil, fmt.Errorf("missing requested dimension %q in %s", dim, mustJSON(p))
	}
	return update, nil
}

func dimensionPresent(u *model.ProfileUpdate, dim model.Dimension) bool {
	switch dim {
	case model.DimensionPrice:
		return u.PriceMin != nil || u.PriceMax != nil
	case model.DimensionArea:
		return u.AreaMin != nil || u.AreaMax != nil
	case model.DimensionBedrooms:
		return u.Bedrooms != nil
	case model.DimensionTags:
		return len(u.Tags) > 0
	case model.DimensionNotes:
		return u.Notes != nil
	}
	return false
}

func validateRange(lo, hi *float64, name string) error {
	if lo != nil && *lo < 0 {
		return fmt.Errorf("%s_min must be non-negative, got %g", name, *lo)
	}
	if hi != nil && *hi < 0 {
		return fmt.Errorf("%s_max must be non-negative, got %g", name, *hi)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("%s range inverted: %g > %g", name, *lo, *hi)
	}
	return nil
}

func normalizeTags(tags []string) ([]string, error) {
	allowed := make(map[string]bool, len(AllowedTags))
	for _, t := range AllowedTags {
		allowed[t] = true
	}

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		norm := strings.ToLower(strings.TrimSpace(t))
		if norm == "" {
			continue
		}
		if !allowed[norm] {
			return nil, fmt.Errorf("unknown tag %q", t)
		}
		if seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	if len(out) == 0 {
		return nil, errors.New("no usable tags")
	}
	return out, nil
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<unserializable>"
	}
	return string(b)
}
