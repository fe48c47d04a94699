package model

import (
	"encoding/json"
	"math"
	"time"
)

// Record is a JSON object kept by the store. The only field with meaning is "id".
type Record map[string]any

const IDField = "id"

// ID reports the record's integer id. Non-integral or missing ids report false.
func (r Record) ID() (int64, bool) {
	switch v := r[IDField].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// WithID returns a copy of the record carrying id.
func (r Record) WithID(id int64) Record {
	out := r.Clone()
	out[IDField] = id
	return out
}

type EventType string

const (
	EventCreated  EventType = "created"
	EventReplaced EventType = "replaced"
	EventPatched  EventType = "patched"
	EventDeleted  EventType = "deleted"
)

type RecordEvent struct {
	EventID    string    `json:"event_id"`
	Type       EventType `json:"type"`
	RecordID   int64     `json:"record_id"`
	Record     Record    `json:"record"`
	OccurredAt time.Time `json:"occurred_at"`
}
