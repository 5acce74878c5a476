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

// GetConversationController serves the two-way history between two users.
type GetConversationController struct {
	convUC *usecase.GetConversationUseCase
}

func NewGetConversationController(repo repository.MessageRepository) *GetConversationController {
	return &GetConversationController{convUC: usecase.NewGetConversationUseCase(repo)}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		senderID := c.Param("senderId")
		recipientID := c.Param("recipientId")
		if senderID == "" || recipientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "senderId and recipientId are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.convUC.Execute(ctx, usecase.GetConversationInput{UserA: senderID, UserB: recipientID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch conversation"})
			return
		}
		if msgs == nil {
			msgs = []message.Message{}
		}
		c.JSON(http.StatusOK, msgs)
	}
}
