package postgres

import (
	"context"
	"database/sql"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

type AttachmentRepo struct {
	db *sql.DB
}

func NewAttachmentRepository(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

func (r *AttachmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	a := &domain.Attachment{}
	query := `SELECT id, message_id, filename, content_type, timestamp FROM attachments WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.MessageID, &a.Filename, &a.ContentType, &a.Timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AttachmentRepo) Create(ctx context.Context, a *domain.Attachment) error {
	query :=
		`INSERT INTO attachments (id, message_id, filename, content_type, timestamp)
        VALUES ($1, $2, $3, $4, $5)`
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, a.ID, a.MessageID, a.Filename, a.ContentType, a.Timestamp)
	return err
}

func (r *AttachmentRepo) ListForChat(ctx context.Context, chatID uuid.UUID) ([]domain.Attachment, error) {
	query :=
		`SELECT a.id, a.message_id, a.filename, a.content_type, a.timestamp
        FROM attachments a
        JOIN messages m ON m.id = a.message_id
        WHERE m.chat_id = $1
        ORDER BY a.timestamp ASC`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.MessageID, &a.Filename, &a.ContentType, &a.Timestamp); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
