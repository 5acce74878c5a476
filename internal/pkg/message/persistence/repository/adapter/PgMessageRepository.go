package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

func (r *PgMessageRepository) Append(ctx context.Context, m message.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.message (id, sender_id, recipient_id, body, created_at, viewed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.SenderID, m.RecipientID, m.Body, m.Timestamp, m.Viewed)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (r *PgMessageRepository) ListByRecipient(ctx context.Context, recipientID string) ([]message.Message, error) {
	return r.list(ctx, `
		SELECT id, sender_id, recipient_id, body, created_at, viewed
		FROM chat.message
		WHERE recipient_id = $1
		ORDER BY created_at ASC, id ASC
	`, recipientID)
}

func (r *PgMessageRepository) ListConversation(ctx context.Context, userA, userB string) ([]message.Message, error) {
	return r.list(ctx, `
		SELECT id, sender_id, recipient_id, body, created_at, viewed
		FROM chat.message
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC, id ASC
	`, userA, userB)
}

func (r *PgMessageRepository) ListByParticipant(ctx context.Context, userID string) ([]message.Message, error) {
	return r.list(ctx, `
		SELECT id, sender_id, recipient_id, body, created_at, viewed
		FROM chat.message
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
}

func (r *PgMessageRepository) MarkViewed(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `UPDATE chat.message SET viewed = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgMessageRepository) list(ctx context.Context, query string, args ...any) ([]message.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []message.Message
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.Timestamp, &m.Viewed); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil && !errors.Is(rows.Err(), pgx.ErrNoRows) {
		return nil, rows.Err()
	}
	return msgs, nil
}
