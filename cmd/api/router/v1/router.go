package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cacheport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/cache/port"
	queueport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/queue/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/gateway"
	messagehttp "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/presentation/http"
	msgrepo "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
	userhttp "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/presentation/http"
	userrepo "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/port"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1, plus the
// operational endpoints that live at the root. cache and client may be
// nil; the feature routers degrade to uncached / synchronous behavior.
func RegisterRoutes(
	r *gin.Engine,
	messages msgrepo.MessageRepository,
	users userrepo.UserRepository,
	cache cacheport.Cache,
	client queueport.Client,
	socket *gateway.SocketController,
) {
	v1 := r.Group("/api/v1")

	messagehttp.RegisterRoutes(v1.Group("/messages"), messages, client)
	userhttp.RegisterRoutes(v1.Group("/users"), users, cache)

	// Realtime entrypoint: chat events and WebRTC signaling share one socket.
	v1.GET("/chat/ws", socket.Handle())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
