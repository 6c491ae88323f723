// Package due decides whether a subscription's schedule has reached its
// trigger instant and projects UTC timestamps onto a subscriber's local
// calendar. Pure functions, no I/O.
package due

import (
	"time"

	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/user"
)

// LocalDate is an ISO calendar date (YYYY-MM-DD) in some subscriber's zone.
// Used only as a matching key.
type LocalDate string

const localDateLayout = "2006-01-02"

// Tolerance is how far "now" may drift from the scheduled instant and still
// count as due. The polling scheduler samples at least this often.
const Tolerance = 60 * time.Second

// LocalDateFromUTC projects a UTC instant into loc and returns its calendar
// date. The date may shift either way relative to UTC's calendar date.
func LocalDateFromUTC(t time.Time, loc *time.Location) LocalDate {
	return LocalDate(t.In(loc).Format(localDateLayout))
}

// ScheduledSend re-expresses now in loc, replaces its time of day with
// sendAtSecondsLocal and zeroes sub-second precision. Resolving through the
// zone (not a fixed offset) keeps the wall-clock time stable across DST
// transitions.
func ScheduledSend(sendAtSecondsLocal int, loc *time.Location, now time.Time) time.Time {
	local := now.In(loc)
	h := sendAtSecondsLocal / 3600
	m := (sendAtSecondsLocal % 3600) / 60
	s := sendAtSecondsLocal % 60
	return time.Date(local.Year(), local.Month(), local.Day(), h, m, s, 0, loc)
}

// IsDue reports whether now is within Tolerance (inclusive) of the
// subscription's fixed send instant. Relative schedules have no due path
// yet and are never due.
func IsDue(sub *subscription.Subscription, u *user.User, now time.Time) bool {
	if sub.Schedule.Kind != subscription.ScheduleFixed {
		return false
	}
	target := ScheduledSend(sub.Schedule.SendAtSecondsLocal, u.Location(), now)
	d := now.Sub(target)
	if d < 0 {
		d = -d
	}
	return d <= Tolerance
}

// AlreadySentToday reports whether lastSentAt falls on the same local
// calendar day as now. A nil lastSentAt means never sent.
func AlreadySentToday(lastSentAt *time.Time, loc *time.Location, now time.Time) bool {
	if lastSentAt == nil {
		return false
	}
	return LocalDateFromUTC(*lastSentAt, loc) == LocalDateFromUTC(now, loc)
}
