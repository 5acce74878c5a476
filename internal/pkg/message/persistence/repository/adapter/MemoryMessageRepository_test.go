package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

func mustMsg(t *testing.T, sender, recipient, body string, ts time.Time) message.Message {
	t.Helper()
	m, err := message.New(message.Message{SenderID: sender, RecipientID: recipient, Body: body, Timestamp: ts})
	if err != nil {
		t.Fatal(err)
	}
	return *m
}

func TestListOrderingAscending(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	// appended out of order on purpose
	later := mustMsg(t, "u1", "u2", "later", base.Add(time.Minute))
	earlier := mustMsg(t, "u2", "u1", "earlier", base)
	if _, err := repo.Append(ctx, later); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Append(ctx, earlier); err != nil {
		t.Fatal(err)
	}

	conv, err := repo.ListConversation(ctx, "u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(conv) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv))
	}
	if conv[0].Body != "earlier" || conv[1].Body != "later" {
		t.Fatalf("wrong order: %s, %s", conv[0].Body, conv[1].Body)
	}
}

func TestListByRecipientAndParticipant(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := repo.Append(ctx, mustMsg(t, "u1", "u2", "a", now)); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Append(ctx, mustMsg(t, "u3", "u1", "b", now.Add(time.Second))); err != nil {
		t.Fatal(err)
	}

	inbox, _ := repo.ListByRecipient(ctx, "u2")
	if len(inbox) != 1 || inbox[0].Body != "a" {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}

	all, _ := repo.ListByParticipant(ctx, "u1")
	if len(all) != 2 {
		t.Fatalf("expected both directions for u1, got %d", len(all))
	}

	none, _ := repo.ListByRecipient(ctx, "nobody")
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %d", len(none))
	}
}

func TestMarkViewedIdempotent(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()

	m := mustMsg(t, "u1", "u2", "hi", time.Now().UTC())
	id, err := repo.Append(ctx, m)
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.MarkViewed(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkViewed(ctx, id); err != nil {
		t.Fatalf("second call should not fail: %v", err)
	}

	got, _ := repo.ListByRecipient(ctx, "u2")
	if !got[0].Viewed {
		t.Fatal("expected viewed=true")
	}

	if err := repo.MarkViewed(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentAppendLosesNothing(t *testing.T) {
	repo := NewMemoryMessageRepository()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m := mustMsg(t, "u1", "u2", "x", time.Now().UTC())
			if _, err := repo.Append(ctx, m); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, _ := repo.ListByRecipient(ctx, "u2")
	if len(got) != n {
		t.Fatalf("expected %d messages, got %d", n, len(got))
	}
	seen := make(map[string]bool, n)
	for _, m := range got {
		if seen[m.ID] {
			t.Fatalf("duplicate id %s", m.ID)
		}
		seen[m.ID] = true
	}
}
