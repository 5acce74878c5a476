package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/cache/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/application/usecase"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/port"
)

// GetUserController serves the user-lookup-by-id endpoint.
type GetUserController struct {
	getUC *usecase.GetUserUseCase
}

func NewGetUserController(repo repository.UserRepository, cache cacheport.Cache) *GetUserController {
	return &GetUserController{getUC: usecase.NewGetUserUseCase(repo, cache)}
}

func (h *GetUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		u, err := h.getUC.Execute(ctx, usecase.GetUserInput{UserID: userID})
		switch {
		case err == nil:
			c.JSON(http.StatusOK, u)
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		}
	}
}
