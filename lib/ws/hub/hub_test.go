package connectionhub

import (
	"sync"
	"testing"

	wsmodels "doc-flow-backend/models/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	t.Run(`сообщение без подключенного клиента не доставляется`, func(t *testing.T) {
		hub := &impl{clients: map[string]clientSession{}}
		hub.SendMessage(wsmodels.ServerMessage{ToUserID: "u1", Code: wsmodels.CodeInboxUpdated})
		require.False(t, hub.IsConnected("u1"))
	})

	t.Run(`отправка во время отключения клиента не паникует`, func(t *testing.T) {
		hub := &impl{clients: map[string]clientSession{}}
		hub.AddClient("u1", &websocket.Conn{})

		var wg sync.WaitGroup
		for k := 0; k < 4; k++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for n := 0; n < 200; n++ {
					hub.SendMessage(wsmodels.ServerMessage{ToUserID: "u1", Code: wsmodels.CodeInboxUpdated})
				}
			}()
		}
		hub.DeleteClient("u1")
		wg.Wait()
		require.False(t, hub.IsConnected("u1"))
	})

	t.Run(`повторное подключение заменяет сессию`, func(t *testing.T) {
		hub := &impl{clients: map[string]clientSession{}}
		hub.AddClient("u1", &websocket.Conn{})
		hub.AddClient("u1", &websocket.Conn{})
		require.Len(t, hub.clients, 1)
		hub.DeleteClient("u1")
		require.Empty(t, hub.clients)
	})
}
