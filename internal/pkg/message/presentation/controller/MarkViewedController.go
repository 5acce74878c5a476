package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/usecase"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// MarkViewedController flips the viewed flag on a stored message.
type MarkViewedController struct {
	markUC *usecase.MarkViewedUseCase
}

func NewMarkViewedController(repo repository.MessageRepository) *MarkViewedController {
	return &MarkViewedController{markUC: usecase.NewMarkViewedUseCase(repo)}
}

func (h *MarkViewedController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID := c.Param("messageId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err := h.markUC.Execute(ctx, usecase.MarkViewedInput{MessageID: messageID})
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "Message marked as viewed successfully"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
		}
	}
}
