package task

import (
	"context"
	"encoding/json"
	"time"

	qport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/queue/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/usecase"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// StoreMessageTaskType is the queue task name for persisting a chat message.
const StoreMessageTaskType = "chat:store_message"

// StoreMessageTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid coupling with their JSON tags.
type StoreMessageTaskPayload struct {
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Body        string `json:"message"`
}

// RegisterStoreMessageTask binds the task handler to the provided server.
func RegisterStoreMessageTask(srv qport.Server, repo repository.MessageRepository) {
	uc := usecase.NewSendMessageUseCase(repo)
	srv.Register(StoreMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p StoreMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			SenderID:    p.SenderID,
			RecipientID: p.RecipientID,
			Body:        p.Body,
		})
		return err
	})
}
