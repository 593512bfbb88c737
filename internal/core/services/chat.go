package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("chat-service")

type IChatService interface {
	// GetOrCreate returns the existing direct chat between the two users,
	// creating it first when none exists yet.
	GetOrCreate(ctx context.Context, userID, peerID uuid.UUID) (*domain.Chat, bool, error)
	Leave(ctx context.Context, userID, chatID uuid.UUID) error
	Members(ctx context.Context, userID, chatID uuid.UUID) ([]uuid.UUID, error)
	History(ctx context.Context, userID, chatID uuid.UUID, since, until *time.Time, count int) ([]domain.MessageRead, error)
	SendMessage(ctx context.Context, userID, chatID uuid.UUID, content string) (*domain.MessageRead, error)
	Infos(ctx context.Context, userID uuid.UUID) ([]domain.ChatInfoRead, error)
}

type ChatService struct {
	log       *slog.Logger
	chats     domain.ChatRepository
	messages  domain.MessageRepository
	presence  contracts.PresenceStore
	announcer contracts.Announcer
	txManager contracts.TxManager
}

func NewChatService(
	log *slog.Logger,
	chats domain.ChatRepository,
	messages domain.MessageRepository,
	presence contracts.PresenceStore,
	announcer contracts.Announcer,
	txManager contracts.TxManager,
) *ChatService {
	return &ChatService{
		log:       log,
		chats:     chats,
		messages:  messages,
		presence:  presence,
		announcer: announcer,
		txManager: txManager,
	}
}

func (s *ChatService) GetOrCreate(ctx context.Context, userID, peerID uuid.UUID) (*domain.Chat, bool, error) {
	ctx, span := tracer.Start(ctx, "ChatService.GetOrCreate", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("peer_id", peerID.String()),
	))
	defer span.End()

	if userID == peerID {
		return nil, false, domain.ErrChatWithSelf
	}

	if chat, err := s.chats.FindDirect(ctx, userID, peerID); err == nil {
		return chat, false, nil
	} else if err != domain.ErrChatNotFound {
		span.RecordError(err)
		return nil, false, err
	}

	var chat *domain.Chat
	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		created, err := s.chats.Create(txCtx, uuid.New(), userID, peerID)
		if err != nil {
			return err
		}
		chat = created
		return nil
	})
	if err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - get or create - create failed", "user_id", userID, "peer_id", peerID, "err", err)
		return nil, false, err
	}
	s.log.InfoContext(ctx, "chat - get or create - created", "chat_id", chat.ID)
	return chat, true, nil
}

func (s *ChatService) Leave(ctx context.Context, userID, chatID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "ChatService.Leave", trace.WithAttributes(
		attribute.String("chat_id", chatID.String()),
	))
	defer span.End()

	if err := s.requireMember(ctx, userID, chatID); err != nil {
		return err
	}
	// Direct chats disappear for both sides once either member leaves.
	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.chats.Delete(txCtx, chatID)
	}); err != nil {
		span.RecordError(err)
		return err
	}
	s.log.InfoContext(ctx, "chat - leave - chat removed", "chat_id", chatID, "user_id", userID)
	return nil
}

func (s *ChatService) Members(ctx context.Context, userID, chatID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.requireMember(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.chats.MemberIDs(ctx, chatID)
}

func (s *ChatService) History(
	ctx context.Context,
	userID, chatID uuid.UUID,
	since, until *time.Time,
	count int,
) ([]domain.MessageRead, error) {
	ctx, span := tracer.Start(ctx, "ChatService.History", trace.WithAttributes(
		attribute.String("chat_id", chatID.String()),
	))
	defer span.End()

	if since == nil && until == nil && count <= 0 {
		return nil, domain.ErrInvalidHistory
	}
	if err := s.requireMember(ctx, userID, chatID); err != nil {
		return nil, err
	}

	messages, err := s.messages.FetchHistory(ctx, chatID, since, until, count)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]domain.MessageRead, 0, len(messages))
	for i := range messages {
		out = append(out, domain.NewMessageRead(messages[i]))
	}
	return out, nil
}

func (s *ChatService) SendMessage(ctx context.Context, userID, chatID uuid.UUID, content string) (*domain.MessageRead, error) {
	ctx, span := tracer.Start(ctx, "ChatService.SendMessage", trace.WithAttributes(
		attribute.String("chat_id", chatID.String()),
		attribute.String("sender_id", userID.String()),
	))
	defer span.End()

	if len(content) > domain.MaxMessageContentLen {
		return nil, domain.ErrMessageTooLong
	}
	if err := s.requireMember(ctx, userID, chatID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		SenderID:  userID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.messages.Create(txCtx, msg)
	}); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - send message - create failed", "chat_id", chatID, "err", err)
		return nil, err
	}

	read := domain.NewMessageRead(*msg)
	if members, err := s.chats.MemberIDs(ctx, chatID); err == nil {
		s.announcer.Announce(ctx, members, domain.NewMessagePutAnnouncement(read), userID)
	} else {
		s.log.ErrorContext(ctx, "chat - send message - member lookup failed", "chat_id", chatID, "err", err)
	}
	return &read, nil
}

func (s *ChatService) Infos(ctx context.Context, userID uuid.UUID) ([]domain.ChatInfoRead, error) {
	ctx, span := tracer.Start(ctx, "ChatService.Infos", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
	))
	defer span.End()

	infos, err := s.chats.InfosForUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := make([]domain.ChatInfoRead, 0, len(infos))
	for _, info := range infos {
		online, err := s.presence.IsOnline(ctx, info.PeerID)
		if err != nil {
			s.log.WarnContext(ctx, "chat - infos - presence lookup failed", "peer_id", info.PeerID, "err", err)
			online = false
		}
		out = append(out, domain.ChatInfoRead{
			ChatID:       info.ChatID,
			PeerID:       info.PeerID,
			PeerUsername: info.PeerUsername,
			PeerFullname: info.PeerFullname,
			PeerOnline:   online,
		})
	}
	return out, nil
}

func (s *ChatService) requireMember(ctx context.Context, userID, chatID uuid.UUID) error {
	ok, err := s.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotChatMember
	}
	return nil
}
