package services

import (
	"context"
	"log/slog"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type IMessageService interface {
	Get(ctx context.Context, userID, messageID uuid.UUID) (*domain.MessageRead, error)
	// Edit replaces the message content and pushes the updated message to
	// the other chat members.
	Edit(ctx context.Context, userID, messageID uuid.UUID, content string) (*domain.MessageRead, error)
	Delete(ctx context.Context, userID, messageID uuid.UUID) error
}

type MessageService struct {
	log       *slog.Logger
	messages  domain.MessageRepository
	chats     domain.ChatRepository
	announcer contracts.Announcer
	txManager contracts.TxManager
}

func NewMessageService(
	log *slog.Logger,
	messages domain.MessageRepository,
	chats domain.ChatRepository,
	announcer contracts.Announcer,
	txManager contracts.TxManager,
) *MessageService {
	return &MessageService{
		log:       log,
		messages:  messages,
		chats:     chats,
		announcer: announcer,
		txManager: txManager,
	}
}

// fetchOwned loads the message and checks the caller may touch it. Any
// chat member may read; only the sender may edit or delete.
func (s *MessageService) fetchOwned(ctx context.Context, userID, messageID uuid.UUID, mustBeSender bool) (*domain.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if mustBeSender {
		if msg.SenderID != userID {
			return nil, domain.ErrNotChatMember
		}
		return msg, nil
	}
	ok, err := s.chats.IsMember(ctx, msg.ChatID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotChatMember
	}
	return msg, nil
}

func (s *MessageService) Get(ctx context.Context, userID, messageID uuid.UUID) (*domain.MessageRead, error) {
	msg, err := s.fetchOwned(ctx, userID, messageID, false)
	if err != nil {
		return nil, err
	}
	read := domain.NewMessageRead(*msg)
	return &read, nil
}

func (s *MessageService) Edit(ctx context.Context, userID, messageID uuid.UUID, content string) (*domain.MessageRead, error) {
	ctx, span := tracer.Start(ctx, "MessageService.Edit", trace.WithAttributes(
		attribute.String("message_id", messageID.String()),
	))
	defer span.End()

	if len(content) > domain.MaxMessageContentLen {
		return nil, domain.ErrMessageTooLong
	}
	msg, err := s.fetchOwned(ctx, userID, messageID, true)
	if err != nil {
		return nil, err
	}

	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.messages.UpdateContent(txCtx, messageID, content)
	}); err != nil {
		span.RecordError(err)
		return nil, err
	}
	msg.Content = content
	read := domain.NewMessageRead(*msg)

	if members, err := s.chats.MemberIDs(ctx, msg.ChatID); err == nil {
		s.announcer.Announce(ctx, members, domain.NewMessagePutAnnouncement(read), userID)
	} else {
		s.log.ErrorContext(ctx, "message - edit - member lookup failed", "chat_id", msg.ChatID, "err", err)
	}
	s.log.InfoContext(ctx, "message - edit - success", "message_id", messageID)
	return &read, nil
}

func (s *MessageService) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "MessageService.Delete", trace.WithAttributes(
		attribute.String("message_id", messageID.String()),
	))
	defer span.End()

	msg, err := s.fetchOwned(ctx, userID, messageID, true)
	if err != nil {
		return err
	}

	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.messages.Delete(txCtx, messageID)
	}); err != nil {
		span.RecordError(err)
		return err
	}

	ref := domain.MessageRef{ID: messageID, ChatID: msg.ChatID}
	if members, err := s.chats.MemberIDs(ctx, msg.ChatID); err == nil {
		s.announcer.Announce(ctx, members, domain.NewMessageDeleteAnnouncement(ref), userID)
	} else {
		s.log.ErrorContext(ctx, "message - delete - member lookup failed", "chat_id", msg.ChatID, "err", err)
	}
	s.log.InfoContext(ctx, "message - delete - success", "message_id", messageID)
	return nil
}
