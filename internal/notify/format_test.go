package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtpt/matchday/internal/domain/topic"
)

func nyLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestSubject_SingleGame(t *testing.T) {
	loc := nyLoc(t)
	events := []topic.Event{
		topic.SportsEvent{
			ID:       uuid.New(),
			StartUTC: time.Date(2026, 1, 16, 0, 30, 0, 0, time.UTC),
			TeamName: "Celtics",
			Opponent: "Raptors",
		},
	}

	subject, err := Subject(events, loc)
	require.NoError(t, err)
	assert.Equal(t, "Celtics vs. Raptors, 7:30 PM EST", subject)
}

func TestSubject_MultipleGames(t *testing.T) {
	loc := nyLoc(t)
	events := []topic.Event{
		topic.SportsEvent{ID: uuid.New(), StartUTC: time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC), TeamName: "Celtics", Opponent: "Knicks"},
		topic.SportsEvent{ID: uuid.New(), StartUTC: time.Date(2026, 1, 16, 0, 30, 0, 0, time.UTC), TeamName: "Celtics", Opponent: "Raptors"},
	}

	subject, err := Subject(events, loc)
	require.NoError(t, err)
	assert.Equal(t, "Celtics play today, 2 games", subject)
}

func TestBody_ListsGamesInOrder(t *testing.T) {
	loc := nyLoc(t)
	events := []topic.Event{
		topic.SportsEvent{ID: uuid.New(), StartUTC: time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC), TeamName: "Celtics", Opponent: "Knicks"},
		topic.SportsEvent{ID: uuid.New(), StartUTC: time.Date(2026, 1, 16, 0, 30, 0, 0, time.UTC), TeamName: "Celtics", Opponent: "Raptors"},
	}

	body, err := Body(events, loc)
	require.NoError(t, err)
	assert.Equal(t,
		"Celtics play today.\n\n- Celtics vs. Knicks at 1:00 PM EST\n- Celtics vs. Raptors at 7:30 PM EST",
		body,
	)
}

func TestFormat_EmptyEvents(t *testing.T) {
	loc := nyLoc(t)

	_, err := Subject(nil, loc)
	assert.ErrorIs(t, err, ErrNoEvents)

	_, err = Body(nil, loc)
	assert.ErrorIs(t, err, ErrNoEvents)
}
