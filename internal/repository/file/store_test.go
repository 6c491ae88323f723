package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/domain/subscription"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadUsers(t *testing.T) {
	root := t.TempDir()
	id := uuid.NewString()
	writeFile(t, filepath.Join(root, "users.json"),
		`[{"id":"`+id+`","email":"fan@example.com","timezone":"America/New_York"}]`)

	users, err := New(root).LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "fan@example.com", users[0].Email)
	assert.Equal(t, "America/New_York", users[0].Location().String())
}

func TestLoadUsers_MissingFile(t *testing.T) {
	_, err := New(t.TempDir()).LoadUsers(context.Background())

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestLoadUsers_InvalidRecordsCarryIssues(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "users.json"),
		`[{"id":"`+uuid.NewString()+`","email":"fan@example.com","timezone":"UTC"},
		  {"id":"`+uuid.NewString()+`","email":"not-an-email","timezone":"UTC"}]`)

	_, err := New(root).LoadUsers(context.Background())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Issues, 1)
	assert.Equal(t, "users[1]", ve.Issues[0].Path)
	assert.Contains(t, ve.Issues[0].Message, "email")
}

func TestLoadTopic(t *testing.T) {
	root := t.TempDir()
	topicID := uuid.New()
	writeFile(t, filepath.Join(root, "topics", topicID.String()+".json"),
		`{"id":"`+topicID.String()+`","events":[{"kind":"sports","id":"`+uuid.NewString()+`","start_utc":"2026-01-16T00:30:00Z","team_name":"Celtics","opponent":"Raptors"}]}`)

	tp, err := New(root).LoadTopic(context.Background(), topicID)
	require.NoError(t, err)
	assert.Equal(t, topicID, tp.ID)
	require.Len(t, tp.Events, 1)
}

func TestLoadTopic_Missing(t *testing.T) {
	_, err := New(t.TempDir()).LoadTopic(context.Background(), uuid.New())

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestUpdateSubscription_PersistsLastSentAt(t *testing.T) {
	root := t.TempDir()
	subID := uuid.New()
	userID := uuid.New()
	topicID := uuid.New()
	writeFile(t, filepath.Join(root, "subscriptions.json"),
		`[{"id":"`+subID.String()+`","user_id":"`+userID.String()+`","topic_id":"`+topicID.String()+`","schedule":{"type":"fixed","send_at_seconds_local":34200},"enabled":true,"last_sent_at":null}]`)

	store := New(root)
	ctx := context.Background()

	subs, err := store.LoadSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Nil(t, subs[0].LastSentAt)

	sentAt := time.Date(2026, 1, 15, 14, 1, 0, 0, time.UTC)
	subs[0].LastSentAt = &sentAt
	require.NoError(t, store.UpdateSubscription(ctx, subs[0]))

	reloaded, err := store.LoadSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	require.NotNil(t, reloaded[0].LastSentAt)
	assert.True(t, sentAt.Equal(*reloaded[0].LastSentAt))
	assert.Equal(t, subscription.FixedSchedule(34200), reloaded[0].Schedule)
}

func TestAppendNotification_AssignsSequentialIDs(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	userID := uuid.New()

	first := &notification.Notification{
		SubscriptionID: uuid.New(), UserID: userID,
		Channel: notification.ChannelEmail,
		SentAt:  time.Now().UTC(), Subject: "s1", Payload: "b1",
	}
	require.NoError(t, store.AppendNotification(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	second := &notification.Notification{
		SubscriptionID: uuid.New(), UserID: userID,
		Channel: notification.ChannelEmail,
		SentAt:  time.Now().UTC(), Subject: "s2", Payload: "b2",
	}
	require.NoError(t, store.AppendNotification(ctx, second))
	assert.Equal(t, int64(2), second.ID)

	ns, err := store.ListNotificationsByUser(ctx, userID, 1)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "s2", ns[0].Subject)
}
