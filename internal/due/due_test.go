package due

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/user"
)

func mustUser(t *testing.T, tz string) *user.User {
	t.Helper()
	u, err := user.New(uuid.New(), "fan@example.com", tz)
	require.NoError(t, err)
	return u
}

func fixedSub(sendAt int) *subscription.Subscription {
	return &subscription.Subscription{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		TopicID:  uuid.New(),
		Schedule: subscription.FixedSchedule(sendAt),
		Enabled:  true,
	}
}

func TestLocalDateFromUTC_ShiftsAcrossMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 02:00 UTC is still the previous evening in New York.
	at := time.Date(2026, 1, 2, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, LocalDate("2026-01-01"), LocalDateFromUTC(at, ny))

	// 20:00 UTC is already the next morning in Tokyo.
	at = time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, LocalDate("2026-01-02"), LocalDateFromUTC(at, tokyo))
}

func TestScheduledSend_StableAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	const nineAM = 9 * 3600

	// Day before the spring-forward transition: EST, UTC-5.
	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	target := ScheduledSend(nineAM, ny, now)
	assert.Equal(t, time.Date(2026, 3, 7, 14, 0, 0, 0, time.UTC), target.UTC())

	// Transition day: EDT, UTC-4, but still 09:00 on the wall clock.
	now = time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	target = ScheduledSend(nineAM, ny, now)
	assert.Equal(t, time.Date(2026, 3, 8, 13, 0, 0, 0, time.UTC), target.UTC())
	local := target.In(ny)
	assert.Equal(t, 9, local.Hour())
	assert.Equal(t, 0, local.Minute())
}

func TestIsDue_ToleranceBoundary(t *testing.T) {
	u := mustUser(t, "America/New_York")
	sub := fixedSub(9 * 3600)

	// 09:00 EDT on 2026-06-15 is 13:00 UTC.
	target := time.Date(2026, 6, 15, 13, 0, 0, 0, time.UTC)

	assert.True(t, IsDue(sub, u, target))
	assert.True(t, IsDue(sub, u, target.Add(60*time.Second)))
	assert.True(t, IsDue(sub, u, target.Add(-60*time.Second)))
	assert.False(t, IsDue(sub, u, target.Add(61*time.Second)))
	assert.False(t, IsDue(sub, u, target.Add(-61*time.Second)))
}

func TestIsDue_RelativeNeverDue(t *testing.T) {
	u := mustUser(t, "UTC")
	sub := fixedSub(0)
	sub.Schedule = subscription.RelativeSchedule(-3600)

	assert.False(t, IsDue(sub, u, time.Now().UTC()))
}

func TestAlreadySentToday(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2026, 6, 15, 13, 0, 0, 0, time.UTC)

	assert.False(t, AlreadySentToday(nil, ny, now))

	earlier := now.Add(-2 * time.Hour)
	assert.True(t, AlreadySentToday(&earlier, ny, now))

	yesterday := now.Add(-24 * time.Hour)
	assert.False(t, AlreadySentToday(&yesterday, ny, now))

	// Same UTC day, different local day: 03:00 UTC is the previous evening
	// in New York, so a send at 13:00 UTC the same UTC day does not dedupe.
	lateLocal := time.Date(2026, 6, 15, 3, 0, 0, 0, time.UTC)
	assert.False(t, AlreadySentToday(&lateLocal, ny, now))
}
