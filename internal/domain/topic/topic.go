package topic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Topic is a stream of scheduled events a subscription attaches to.
type Topic struct {
	ID     uuid.UUID
	Events []Event
}

type topicJSON struct {
	ID     uuid.UUID       `json:"id"`
	Events []eventEnvelope `json:"events"`
}

func (t Topic) MarshalJSON() ([]byte, error) {
	out := topicJSON{ID: t.ID, Events: make([]eventEnvelope, 0, len(t.Events))}
	for _, ev := range t.Events {
		env, err := encodeEvent(ev)
		if err != nil {
			return nil, err
		}
		out.Events = append(out.Events, env)
	}
	return json.Marshal(out)
}

func (t *Topic) UnmarshalJSON(data []byte) error {
	var raw topicJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	events := make([]Event, 0, len(raw.Events))
	for i, env := range raw.Events {
		ev, err := decodeEvent(env)
		if err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
		events = append(events, ev)
	}
	t.ID = raw.ID
	t.Events = events
	return nil
}

func (t *Topic) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("id: must not be empty")
	}
	return nil
}

type Repo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Topic, error)
}
