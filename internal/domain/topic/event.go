package topic

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates event variants on the wire and at dispatch sites.
type Kind string

const KindSports Kind = "sports"

// ErrUnknownEventKind is returned by every dispatch site that meets a kind
// it has no case for. The Event interface is sealed to this package, so a
// new variant forces each site to grow a case or start failing loudly.
var ErrUnknownEventKind = errors.New("unknown event kind")

// Event is a scheduled occurrence inside a topic. Implementations live in
// this package only.
type Event interface {
	EventID() uuid.UUID
	Start() time.Time
	Kind() Kind

	sealed()
}

// SportsEvent is a game: the subscriber's team against an opponent.
type SportsEvent struct {
	ID       uuid.UUID
	StartUTC time.Time
	TeamName string
	Opponent string
}

func (e SportsEvent) EventID() uuid.UUID { return e.ID }
func (e SportsEvent) Start() time.Time   { return e.StartUTC }
func (e SportsEvent) Kind() Kind         { return KindSports }
func (e SportsEvent) sealed()            {}

func (e SportsEvent) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("id: must not be empty")
	}
	if e.StartUTC.IsZero() {
		return fmt.Errorf("start_utc: must not be zero")
	}
	if e.TeamName == "" {
		return fmt.Errorf("team_name: must not be empty")
	}
	if e.Opponent == "" {
		return fmt.Errorf("opponent: must not be empty")
	}
	return nil
}

// eventEnvelope is the JSON shape shared by all kinds; unused fields stay
// empty for kinds that do not carry them.
type eventEnvelope struct {
	Kind     Kind      `json:"kind"`
	ID       uuid.UUID `json:"id"`
	StartUTC time.Time `json:"start_utc"`
	TeamName string    `json:"team_name,omitempty"`
	Opponent string    `json:"opponent,omitempty"`
}

func encodeEvent(ev Event) (eventEnvelope, error) {
	switch e := ev.(type) {
	case SportsEvent:
		return eventEnvelope{
			Kind:     KindSports,
			ID:       e.ID,
			StartUTC: e.StartUTC.UTC(),
			TeamName: e.TeamName,
			Opponent: e.Opponent,
		}, nil
	default:
		return eventEnvelope{}, fmt.Errorf("%w: %q", ErrUnknownEventKind, ev.Kind())
	}
}

func decodeEvent(env eventEnvelope) (Event, error) {
	switch env.Kind {
	case KindSports:
		ev := SportsEvent{
			ID:       env.ID,
			StartUTC: env.StartUTC.UTC(),
			TeamName: env.TeamName,
			Opponent: env.Opponent,
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("event %s: %w", env.ID, err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventKind, env.Kind)
	}
}
