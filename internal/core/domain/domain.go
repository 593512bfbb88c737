package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxMessageContentLen = 5000
	MaxFullnameLen       = 50
	MaxUsernameLen       = 50
	MinUsernameLen       = 2
)

// User is the persistent account identity.
type User struct {
	ID           uuid.UUID
	Fullname     string
	Username     string
	Email        string
	PasswordHash string
}

// Chat is a direct-message conversation between exactly two users.
type Chat struct {
	ID uuid.UUID
}

type Message struct {
	ID        uuid.UUID
	ChatID    uuid.UUID
	SenderID  uuid.UUID
	Content   string
	Timestamp time.Time
}

type Attachment struct {
	ID          uuid.UUID
	MessageID   uuid.UUID
	Filename    string
	ContentType string
	Timestamp   time.Time
}

// ChatInfo is the read model behind the user's chat list: the chat plus
// the other participant of the direct conversation.
type ChatInfo struct {
	ChatID       uuid.UUID
	PeerID       uuid.UUID
	PeerUsername string
	PeerFullname string
}
