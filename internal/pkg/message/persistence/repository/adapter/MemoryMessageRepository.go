package adapter

import (
	"context"
	"sort"
	"sync"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// MemoryMessageRepository keeps the chat log in process memory. It backs
// development mode (no DB_URL) and tests; not durable across restarts.
type MemoryMessageRepository struct {
	mu   sync.RWMutex
	msgs []message.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{}
}

var _ repository.MessageRepository = (*MemoryMessageRepository)(nil)

func (r *MemoryMessageRepository) Append(ctx context.Context, m message.Message) (string, error) {
	r.mu.Lock()
	r.msgs = append(r.msgs, m)
	r.mu.Unlock()
	return m.ID, nil
}

func (r *MemoryMessageRepository) ListByRecipient(ctx context.Context, recipientID string) ([]message.Message, error) {
	return r.filter(func(m message.Message) bool {
		return m.RecipientID == recipientID
	}), nil
}

func (r *MemoryMessageRepository) ListConversation(ctx context.Context, userA, userB string) ([]message.Message, error) {
	return r.filter(func(m message.Message) bool {
		return (m.SenderID == userA && m.RecipientID == userB) ||
			(m.SenderID == userB && m.RecipientID == userA)
	}), nil
}

func (r *MemoryMessageRepository) ListByParticipant(ctx context.Context, userID string) ([]message.Message, error) {
	return r.filter(func(m message.Message) bool {
		return m.SenderID == userID || m.RecipientID == userID
	}), nil
}

func (r *MemoryMessageRepository) MarkViewed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.msgs {
		if r.msgs[i].ID == id {
			r.msgs[i].Viewed = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *MemoryMessageRepository) filter(keep func(message.Message) bool) []message.Message {
	r.mu.RLock()
	out := make([]message.Message, 0)
	for _, m := range r.msgs {
		if keep(m) {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
