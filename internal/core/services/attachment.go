package services

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/contracts"
	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type AttachmentInput struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type IAttachmentService interface {
	// AddAndPresign records attachment metadata for a message and returns
	// presigned upload URLs, one per attachment in input order.
	AddAndPresign(ctx context.Context, userID, messageID uuid.UUID, inputs []AttachmentInput) (*domain.PresignedAttachments, error)
	ListForChat(ctx context.Context, userID, chatID uuid.UUID) ([]domain.AttachmentRead, error)
	// PresignGet returns a short-lived download URL for the attachment blob.
	PresignGet(ctx context.Context, userID, attachmentID uuid.UUID) (string, error)
}

type AttachmentService struct {
	log         *slog.Logger
	attachments domain.AttachmentRepository
	messages    domain.MessageRepository
	chats       domain.ChatRepository
	store       contracts.ObjectStore
	announcer   contracts.Announcer
	txManager   contracts.TxManager
}

func NewAttachmentService(
	log *slog.Logger,
	attachments domain.AttachmentRepository,
	messages domain.MessageRepository,
	chats domain.ChatRepository,
	store contracts.ObjectStore,
	announcer contracts.Announcer,
	txManager contracts.TxManager,
) *AttachmentService {
	return &AttachmentService{
		log:         log,
		attachments: attachments,
		messages:    messages,
		chats:       chats,
		store:       store,
		announcer:   announcer,
		txManager:   txManager,
	}
}

func (s *AttachmentService) AddAndPresign(
	ctx context.Context,
	userID, messageID uuid.UUID,
	inputs []AttachmentInput,
) (*domain.PresignedAttachments, error) {
	ctx, span := tracer.Start(ctx, "AttachmentService.AddAndPresign", trace.WithAttributes(
		attribute.String("message_id", messageID.String()),
		attribute.Int("count", len(inputs)),
	))
	defer span.End()

	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, domain.ErrNotChatMember
	}

	records := make([]domain.Attachment, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, domain.Attachment{
			ID:          uuid.New(),
			MessageID:   messageID,
			Filename:    in.Filename,
			ContentType: in.ContentType,
			Timestamp:   time.Now().UTC(),
		})
	}

	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		for i := range records {
			if err := s.attachments.Create(txCtx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "attachment - add - create failed", "message_id", messageID, "err", err)
		return nil, err
	}

	reads := make([]domain.AttachmentRead, 0, len(records))
	urls := make([]string, 0, len(records))
	for i := range records {
		url, err := s.store.PresignPut(ctx, records[i].ID, records[i].ContentType)
		if err != nil {
			span.RecordError(err)
			s.log.ErrorContext(ctx, "attachment - add - presign failed", "attachment_id", records[i].ID, "err", err)
			return nil, err
		}
		urls = append(urls, url)
		reads = append(reads, domain.NewAttachmentRead(records[i]))
	}

	if members, err := s.chats.MemberIDs(ctx, msg.ChatID); err == nil {
		s.announcer.Announce(ctx, members, domain.NewMessageAttachmentsAnnouncement(reads), userID)
	} else {
		s.log.ErrorContext(ctx, "attachment - add - member lookup failed", "chat_id", msg.ChatID, "err", err)
	}

	return &domain.PresignedAttachments{
		AllowedMethod: http.MethodPut,
		URLs:          urls,
		Attachments:   reads,
	}, nil
}

func (s *AttachmentService) ListForChat(ctx context.Context, userID, chatID uuid.UUID) ([]domain.AttachmentRead, error) {
	ok, err := s.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotChatMember
	}

	records, err := s.attachments.ListForChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AttachmentRead, 0, len(records))
	for i := range records {
		out = append(out, domain.NewAttachmentRead(records[i]))
	}
	return out, nil
}

func (s *AttachmentService) PresignGet(ctx context.Context, userID, attachmentID uuid.UUID) (string, error) {
	record, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	msg, err := s.messages.GetByID(ctx, record.MessageID)
	if err != nil {
		return "", err
	}
	ok, err := s.chats.IsMember(ctx, msg.ChatID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrNotChatMember
	}
	return s.store.PresignGet(ctx, attachmentID)
}
