package notify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtpt/matchday/internal/domain/topic"
)

// ErrNoEvents marks a contract violation: formatting is only defined over
// non-empty event sequences.
var ErrNoEvents = errors.New("notify: no events to format")

// startTimeLayout renders "7:30 PM EST".
const startTimeLayout = "3:04 PM MST"

func startTime(ev topic.Event, loc *time.Location) string {
	return ev.Start().In(loc).Format(startTimeLayout)
}

func eventSummary(ev topic.Event) (string, error) {
	switch e := ev.(type) {
	case topic.SportsEvent:
		return e.TeamName + " vs. " + e.Opponent, nil
	default:
		return "", fmt.Errorf("%w: %q", topic.ErrUnknownEventKind, ev.Kind())
	}
}

func eventHeadline(ev topic.Event) (string, error) {
	switch e := ev.(type) {
	case topic.SportsEvent:
		return e.TeamName, nil
	default:
		return "", fmt.Errorf("%w: %q", topic.ErrUnknownEventKind, ev.Kind())
	}
}

// Subject builds the message subject. Events must already be sorted
// ascending by start; the first one names the day.
func Subject(events []topic.Event, loc *time.Location) (string, error) {
	switch {
	case len(events) == 0:
		return "", ErrNoEvents
	case len(events) == 1:
		summary, err := eventSummary(events[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s, %s", summary, startTime(events[0], loc)), nil
	default:
		headline, err := eventHeadline(events[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s play today, %d games", headline, len(events)), nil
	}
}

// Body builds the message body: a headline, a blank line, then one line per
// event in the order given.
func Body(events []topic.Event, loc *time.Location) (string, error) {
	if len(events) == 0 {
		return "", ErrNoEvents
	}
	headline, err := eventHeadline(events[0])
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(events)+2)
	lines = append(lines, headline+" play today.", "")
	for _, ev := range events {
		summary, err := eventSummary(ev)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("- %s at %s", summary, startTime(ev, loc)))
	}
	return strings.Join(lines, "\n"), nil
}
