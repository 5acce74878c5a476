package http

import (
	"github.com/gin-gonic/gin"

	queueport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/queue/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/presentation/controller"
	repository "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
)

// RegisterRoutes registers the message REST endpoints under the given
// router group. It constructs per-endpoint controllers and binds them
// directly to routes. client may be nil; sends then persist synchronously.
func RegisterRoutes(g *gin.RouterGroup, repo repository.MessageRepository, client queueport.Client) {
	sendCtl := controller.NewSendMessageController(repo, client)
	inboxCtl := controller.NewGetMessagesController(repo)
	viewCtl := controller.NewMarkViewedController(repo)
	convCtl := controller.NewGetConversationController(repo)
	userCtl := controller.NewGetUserMessagesController(repo)

	g.POST("/send", sendCtl.Handle())
	g.GET("/get/:recipientId", inboxCtl.Handle())
	g.PUT("/view/:messageId", viewCtl.Handle())
	g.GET("/conversation/:senderId/:recipientId", convCtl.Handle())
	g.GET("/getMessages/:userId", userCtl.Handle())
}
