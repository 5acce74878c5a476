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

// GetUserMessagesController serves every message a user sent or received.
type GetUserMessagesController struct {
	userMsgsUC *usecase.GetUserMessagesUseCase
}

func NewGetUserMessagesController(repo repository.MessageRepository) *GetUserMessagesController {
	return &GetUserMessagesController{userMsgsUC: usecase.NewGetUserMessagesUseCase(repo)}
}

func (h *GetUserMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		msgs, err := h.userMsgsUC.Execute(ctx, usecase.GetUserMessagesInput{UserID: userID})
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
