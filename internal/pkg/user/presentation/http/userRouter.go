package http

import (
	"github.com/gin-gonic/gin"

	cacheport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/cache/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/presentation/controller"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/port"
)

// RegisterRoutes registers the user REST endpoints under the given group.
func RegisterRoutes(g *gin.RouterGroup, repo repository.UserRepository, cache cacheport.Cache) {
	getCtl := controller.NewGetUserController(repo, cache)
	g.GET("/get_user/:userId", getCtl.Handle())
}
