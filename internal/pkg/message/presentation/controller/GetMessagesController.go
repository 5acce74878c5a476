package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	message "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/domain"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/usecase"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// GetMessagesController serves the inbox of a single recipient.
type GetMessagesController struct {
	inboxUC *usecase.GetInboxUseCase
}

func NewGetMessagesController(repo repository.MessageRepository) *GetMessagesController {
	return &GetMessagesController{inboxUC: usecase.NewGetInboxUseCase(repo)}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		recipientID := c.Param("recipientId")
		if recipientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipientId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.inboxUC.Execute(ctx, usecase.GetInboxInput{RecipientID: recipientID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch messages"})
			return
		}
		if msgs == nil {
			msgs = []message.Message{}
		}
		c.JSON(http.StatusOK, msgs)
	}
}
