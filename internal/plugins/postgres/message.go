package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	msg := &domain.Message{}
	query := `SELECT id, chat_id, sender_id, content, timestamp FROM messages WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, id).
		Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Content, &msg.Timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	query :=
		`INSERT INTO messages (id, chat_id, sender_id, content, timestamp)
        VALUES ($1, $2, $3, $4, $5)`
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, m.ID, m.ChatID, m.SenderID, m.Content, m.Timestamp)
	return err
}

func (r *MessageRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	query := `UPDATE messages SET content = $2 WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, id, content)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM messages WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepo) FetchHistory(
	ctx context.Context,
	chatID uuid.UUID,
	since, until *time.Time,
	count int,
) ([]domain.Message, error) {
	query := `SELECT id, chat_id, sender_id, content, timestamp FROM messages WHERE chat_id = $1`
	args := []any{chatID}
	if since != nil {
		args = append(args, *since)
		query += ` AND timestamp >= $` + strconv.Itoa(len(args))
	}
	if until != nil {
		args = append(args, *until)
		query += ` AND timestamp <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY timestamp ASC`
	if count > 0 {
		args = append(args, count)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
