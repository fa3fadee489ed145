package ledger

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// Event is one entry of a build's event log.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte
}

// Event types appended during a build.
const (
	EventBuildStarted      = "BuildStarted"
	EventReferencesWritten = "ReferencesWritten"
	EventPageWritten       = "PageWritten"
	EventBuildFinished     = "BuildFinished"
)

// NewEvent marshals payload to JSON for Append.
func NewEvent(buildID, eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.WrapError(err, errors.CategoryInternal, "failed to marshal event payload").
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return Event{BuildID: buildID, Type: eventType, Timestamp: time.Now(), Payload: data}, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to unmarshal event payload").
			WithContext("event_id", e.ID).
			Build()
	}
	return nil
}
