// Package file is the JSON-file-backed storage layer: users.json and
// subscriptions.json at the data root, one topics/<id>.json per topic.
// Records are schema-validated on load; failures carry field-level issues.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/topic"
	"github.com/dtpt/matchday/internal/domain/user"
)

const (
	usersFile         = "users.json"
	subscriptionsFile = "subscriptions.json"
	notificationsFile = "notifications.json"
	topicsDir         = "topics"
)

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) usersPath() string         { return filepath.Join(s.root, usersFile) }
func (s *Store) subscriptionsPath() string { return filepath.Join(s.root, subscriptionsFile) }
func (s *Store) notificationsPath() string { return filepath.Join(s.root, notificationsFile) }
func (s *Store) topicPath(id uuid.UUID) string {
	return filepath.Join(s.root, topicsDir, id.String()+".json")
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &NotFoundError{Path: path}
		}
		return &ReadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ValidationError{Path: path, Issues: []FieldIssue{{Path: "$", Message: err.Error()}}}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func (s *Store) LoadUsers(_ context.Context) ([]*user.User, error) {
	path := s.usersPath()
	var users []*user.User
	if err := readJSON(path, &users); err != nil {
		return nil, err
	}
	var issues []FieldIssue
	for i, u := range users {
		if err := u.Validate(); err != nil {
			issues = append(issues, FieldIssue{Path: fmt.Sprintf("users[%d]", i), Message: err.Error()})
		}
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Path: path, Issues: issues}
	}
	return users, nil
}

func (s *Store) LoadSubscriptions(_ context.Context) ([]*subscription.Subscription, error) {
	path := s.subscriptionsPath()
	var subs []*subscription.Subscription
	if err := readJSON(path, &subs); err != nil {
		return nil, err
	}
	var issues []FieldIssue
	for i, sub := range subs {
		if err := sub.Validate(); err != nil {
			issues = append(issues, FieldIssue{Path: fmt.Sprintf("subscriptions[%d]", i), Message: err.Error()})
		}
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Path: path, Issues: issues}
	}
	return subs, nil
}

func (s *Store) LoadTopic(_ context.Context, id uuid.UUID) (*topic.Topic, error) {
	path := s.topicPath(id)
	var t topic.Topic
	if err := readJSON(path, &t); err != nil {
		return nil, err
	}
	if t.ID == uuid.Nil {
		t.ID = id
	}
	if err := t.Validate(); err != nil {
		return nil, &ValidationError{Path: path, Issues: []FieldIssue{{Path: "topic", Message: err.Error()}}}
	}
	return &t, nil
}

// UpdateSubscription rewrites subscriptions.json with the given record
// replacing its previous version, or appended when new.
func (s *Store) UpdateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	if err := sub.Validate(); err != nil {
		return &ValidationError{Path: s.subscriptionsPath(), Issues: []FieldIssue{{Path: "subscription", Message: err.Error()}}}
	}
	subs, err := s.LoadSubscriptions(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range subs {
		if existing.ID == sub.ID {
			subs[i] = sub
			replaced = true
			break
		}
	}
	if !replaced {
		subs = append(subs, sub)
	}
	return writeJSON(s.subscriptionsPath(), subs)
}

func (s *Store) loadNotifications() ([]*notification.Notification, error) {
	var ns []*notification.Notification
	err := readJSON(s.notificationsPath(), &ns)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ns, nil
}

// AppendNotification assigns the next sequential id and rewrites
// notifications.json. A missing file starts the log.
func (s *Store) AppendNotification(_ context.Context, n *notification.Notification) error {
	ns, err := s.loadNotifications()
	if err != nil {
		return err
	}
	var maxID int64
	for _, existing := range ns {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	n.ID = maxID + 1
	ns = append(ns, n)
	return writeJSON(s.notificationsPath(), ns)
}

func (s *Store) ListNotificationsByUser(_ context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	ns, err := s.loadNotifications()
	if err != nil {
		return nil, err
	}
	var out []*notification.Notification
	for i := len(ns) - 1; i >= 0; i-- {
		if ns[i].UserID != userID {
			continue
		}
		out = append(out, ns[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
