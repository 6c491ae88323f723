package notification

import (
	"time"

	"github.com/google/uuid"
)

const ChannelEmail = "email"

// Message is the artifact handed to a provider. Ephemeral, never persisted.
type Message struct {
	Channel string
	To      string
	Subject string
	Body    string
}

// Notification is the delivery log record written after a successful send.
type Notification struct {
	ID             int64     `json:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	Channel        string    `json:"channel"`
	SentAt         time.Time `json:"sent_at"`
	Subject        string    `json:"subject"`
	Payload        string    `json:"payload"`
}

type Clock interface {
	Now() time.Time
}
