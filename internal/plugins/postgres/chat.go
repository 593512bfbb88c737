package postgres

import (
	"context"
	"database/sql"

	"github.com/KirilStrezikozin/mini-chat-backend/internal/core/domain"

	"github.com/google/uuid"
)

type ChatRepo struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

func (r *ChatRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	chat := &domain.Chat{}
	query := `SELECT id FROM chats WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	if err := exec.QueryRowContext(ctx, query, id).Scan(&chat.ID); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

func (r *ChatRepo) FindDirect(ctx context.Context, userID, withUserID uuid.UUID) (*domain.Chat, error) {
	chat := &domain.Chat{}
	// A direct chat has exactly these two members.
	query :=
		`SELECT a.chat_id FROM chat_users a
        JOIN chat_users b ON a.chat_id = b.chat_id
        WHERE a.user_id = $1 AND b.user_id = $2`
	exec := GetExecutor(ctx, r.db)
	if err := exec.QueryRowContext(ctx, query, userID, withUserID).Scan(&chat.ID); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

func (r *ChatRepo) Create(ctx context.Context, id uuid.UUID, memberIDs ...uuid.UUID) (*domain.Chat, error) {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `INSERT INTO chats (id) VALUES ($1)`, id); err != nil {
		return nil, err
	}
	for _, memberID := range memberIDs {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO chat_users (chat_id, user_id) VALUES ($1, $2)`, id, memberID)
		if err != nil {
			return nil, err
		}
	}
	return &domain.Chat{ID: id}, nil
}

func (r *ChatRepo) MemberIDs(ctx context.Context, chatID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM chat_users WHERE chat_id = $1`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ChatRepo) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM chat_users WHERE chat_id = $1 AND user_id = $2)`
	exec := GetExecutor(ctx, r.db)
	var ok bool
	if err := exec.QueryRowContext(ctx, query, chatID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *ChatRepo) InfosForUser(ctx context.Context, userID uuid.UUID) ([]domain.ChatInfo, error) {
	query :=
		`SELECT cu.chat_id, u.id, u.username, u.fullname
        FROM chat_users cu
        JOIN chat_users peer ON peer.chat_id = cu.chat_id AND peer.user_id != cu.user_id
        JOIN users u ON u.id = peer.user_id
        WHERE cu.user_id = $1`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []domain.ChatInfo
	for rows.Next() {
		var info domain.ChatInfo
		if err := rows.Scan(&info.ChatID, &info.PeerID, &info.PeerUsername, &info.PeerFullname); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (r *ChatRepo) Delete(ctx context.Context, chatID uuid.UUID) error {
	// Memberships and messages go with it via ON DELETE CASCADE.
	query := `DELETE FROM chats WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, chatID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}
