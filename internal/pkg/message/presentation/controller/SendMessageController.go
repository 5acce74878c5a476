package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	queueport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/queue/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/metrics"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/task"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/usecase"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// SendMessageController handles the REST send endpoint (one controller per
// endpoint). When a queue client is configured the message is persisted by
// a background worker; otherwise it is written synchronously.
type SendMessageController struct {
	q      queueport.Client
	sendUC *usecase.SendMessageUseCase
}

func NewSendMessageController(repo repository.MessageRepository, client queueport.Client) *SendMessageController {
	return &SendMessageController{
		q:      client,
		sendUC: usecase.NewSendMessageUseCase(repo),
	}
}

type sendMessageRequest struct {
	SenderID    string `json:"sender_id" binding:"required"`
	RecipientID string `json:"recipient_id" binding:"required"`
	Body        string `json:"message" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if h.q != nil {
			payload := task.StoreMessageTaskPayload{
				SenderID:    req.SenderID,
				RecipientID: req.RecipientID,
				Body:        req.Body,
			}
			b, err := json.Marshal(payload)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
				return
			}
			opts := queueport.EnqueueOption{Queue: "chat", MaxRetry: 20}
			id, err := h.q.Enqueue(ctx, queueport.Task{Type: task.StoreMessageTaskType, Payload: b}, opts)
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue message"})
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"status": "queued", "task_id": id})
			return
		}

		msg, err := h.sendUC.Execute(ctx, usecase.SendMessageInput{
			SenderID:    req.SenderID,
			RecipientID: req.RecipientID,
			Body:        req.Body,
		})
		if err != nil {
			if errors.Is(err, usecase.ErrPersistence) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		metrics.MessagesStored.Inc()
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Message sent successfully",
			"message_id": msg.ID,
		})
	}
}
