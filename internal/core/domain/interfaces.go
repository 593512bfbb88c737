package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository handles persistent account identities.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateFullname(ctx context.Context, id uuid.UUID, fullname string) error
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Search matches users whose username or fullname contains the needle,
	// skipping skipID (the searching user).
	Search(ctx context.Context, contains, by string, skipID uuid.UUID, count int) ([]User, error)
}

// ChatRepository handles direct chats and their memberships.
type ChatRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Chat, error)
	// FindDirect returns the existing chat shared by exactly the two users,
	// or ErrChatNotFound when none exists.
	FindDirect(ctx context.Context, userID, withUserID uuid.UUID) (*Chat, error)
	Create(ctx context.Context, id uuid.UUID, memberIDs ...uuid.UUID) (*Chat, error)
	MemberIDs(ctx context.Context, chatID uuid.UUID) ([]uuid.UUID, error)
	IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
	InfosForUser(ctx context.Context, userID uuid.UUID) ([]ChatInfo, error)
	// Delete removes the chat with its memberships and messages.
	Delete(ctx context.Context, chatID uuid.UUID) error
}

type MessageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	Create(ctx context.Context, m *Message) error
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FetchHistory pages messages of a chat by timestamp, oldest first.
	// Nil since/until leave the corresponding bound open; count <= 0 means
	// no limit.
	FetchHistory(ctx context.Context, chatID uuid.UUID, since, until *time.Time, count int) ([]Message, error)
}

type AttachmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	Create(ctx context.Context, a *Attachment) error
	ListForChat(ctx context.Context, chatID uuid.UUID) ([]Attachment, error)
}
