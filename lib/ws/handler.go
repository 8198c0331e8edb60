package ws

import (
	connectionhub "doc-flow-backend/lib/ws/hub"
	"doc-flow-backend/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func InitWs(app fiber.Router) {
	app.Use("", func(ctx *fiber.Ctx) error {
		userID := middleware.GetUserID(ctx)
		ctx.Locals("userID", userID)
		return ctx.Next()
	})
	app.Get("/", websocket.New(pushHandler))
}

// pushHandler держит соединение и доставляет пуши о входящих согласованиях
func pushHandler(c *websocket.Conn) {
	userID := c.Locals("userID").(string)
	connectionhub.Instance.AddClient(userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(userID)
	}()
	readLoop(c)
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

func readLoop(c *websocket.Conn) {
	for {
		if c.Conn == nil {
			return
		}
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				log.WithError(err).Error("ошибка чтения из сокета")
			}
			return
		}
	}
}
