package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wire representations returned by HTTP handlers and embedded in
// announcements. Kept separate from the storage entities so field
// renames never leak onto the wire by accident.

type MessageRead struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMessageRead(m Message) MessageRead {
	return MessageRead{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}

// MessageRef names a message with enough context for clients that index
// their local state by chat.
type MessageRef struct {
	ID     uuid.UUID `json:"id"`
	ChatID uuid.UUID `json:"chat_id"`
}

type AttachmentRead struct {
	ID          uuid.UUID `json:"id"`
	MessageID   uuid.UUID `json:"message_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewAttachmentRead(a Attachment) AttachmentRead {
	return AttachmentRead{
		ID:          a.ID,
		MessageID:   a.MessageID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Timestamp:   a.Timestamp,
	}
}

type UserProfile struct {
	ID       uuid.UUID `json:"id"`
	Fullname string    `json:"fullname"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func NewUserProfile(u User) UserProfile {
	return UserProfile{
		ID:       u.ID,
		Fullname: u.Fullname,
		Username: u.Username,
		Email:    u.Email,
	}
}

type ChatRead struct {
	ID uuid.UUID `json:"id"`
}

type ChatInfoRead struct {
	ChatID       uuid.UUID `json:"chat_id"`
	PeerID       uuid.UUID `json:"peer_id"`
	PeerUsername string    `json:"peer_username"`
	PeerFullname string    `json:"peer_fullname"`
	PeerOnline   bool      `json:"peer_online"`
}

type SearchResult struct {
	ID       uuid.UUID `json:"id"`
	Fullname string    `json:"fullname"`
	Username string    `json:"username"`
}

type PresignedAttachments struct {
	AllowedMethod string           `json:"allowed_method"`
	URLs          []string         `json:"urls"`
	Attachments   []AttachmentRead `json:"attachments"`
}
