package event

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Type discriminates the two event kinds the pipeline carries.
type Type string

const (
	TypeImpression Type = "impression"
	TypeConversion Type = "conversion"
)

// UserEvent is one decision or conversion record queued for dispatch.
type UserEvent struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	UserID     string         `json:"user_id"`
	Attributes map[string]any `json:"attributes,omitempty"`

	// Impression fields.
	FlagKey      string `json:"flag_key,omitempty"`
	RuleKey      string `json:"rule_key,omitempty"`
	ExperimentID string `json:"experiment_id,omitempty"`
	VariationID  string `json:"variation_id,omitempty"`
	CmabUUID     string `json:"cmab_uuid,omitempty"`

	// Conversion fields.
	EventKey string         `json:"event_key,omitempty"`
	Tags     map[string]any `json:"tags,omitempty"`
}

// NewImpression builds a decision-made event.
func NewImpression(userID string, attributes map[string]any, flagKey, ruleKey, experimentID, variationID, cmabUUID string) UserEvent {
	return UserEvent{
		ID:           uuid.NewString(),
		Type:         TypeImpression,
		Timestamp:    time.Now().UTC(),
		UserID:       userID,
		Attributes:   attributes,
		FlagKey:      flagKey,
		RuleKey:      ruleKey,
		ExperimentID: experimentID,
		VariationID:  variationID,
		CmabUUID:     cmabUUID,
	}
}

// NewConversion builds a tracked conversion event.
func NewConversion(userID string, attributes map[string]any, eventKey string, tags map[string]any) UserEvent {
	return UserEvent{
		ID:         uuid.NewString(),
		Type:       TypeConversion,
		Timestamp:  time.Now().UTC(),
		UserID:     userID,
		Attributes: attributes,
		EventKey:   eventKey,
		Tags:       tags,
	}
}

// Batch is a finalized collection of events handed to the dispatcher.
type Batch struct {
	Events []UserEvent `json:"events"`
}

// Payload serializes the batch for transport.
func (b Batch) Payload() ([]byte, error) {
	return json.Marshal(b)
}
