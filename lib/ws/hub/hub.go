package connectionhub

import (
	"context"
	"sync"
	"time"

	wsmodels "doc-flow-backend/models/ws"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	DeleteClient(userID string)
	SendMessage(msg wsmodels.ServerMessage)
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = &impl{
		clients: map[string]clientSession{},
	}
}

type impl struct {
	mx      sync.Mutex
	clients map[string]clientSession //map[userID]
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mx.Lock()
	defer i.mx.Unlock()
	oldSess, ok := i.clients[userID]
	if ok {
		oldSess.stop()
	}
	i.clients[userID] = newSession(conn)
}

func (i *impl) DeleteClient(userID string) {
	i.mx.Lock()
	defer i.mx.Unlock()
	sess, ok := i.clients[userID]
	if !ok {
		return
	}
	delete(i.clients, userID)
	sess.stop()
	close(sess.sendCh)
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	// отправка под мьютексом: канал сессии закрывается в DeleteClient
	// под этим же мьютексом, отправка в закрытый канал исключена
	i.mx.Lock()
	defer i.mx.Unlock()
	sess, ok := i.clients[msg.ToUserID]
	if !ok {
		return
	}
	select {
	case sess.sendCh <- msg:
	default:
		log.WithField("user_id", msg.ToUserID).Warn("буфер сообщений клиента переполнен, сообщение отброшено")
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mx.Lock()
	defer i.mx.Unlock()
	sess, ok := i.clients[userID]
	return ok && sess.conn != nil && sess.conn.Conn != nil
}

type clientSession struct {
	conn *websocket.Conn

	// исходящие сообщения, буферизованы
	sendCh chan wsmodels.ServerMessage
	stop   func()
}

func newSession(conn *websocket.Conn) clientSession {
	ctx, cancelFn := context.WithCancel(context.TODO())
	sess := clientSession{
		stop:   cancelFn,
		conn:   conn,
		sendCh: make(chan wsmodels.ServerMessage, 8),
	}
	go sess.startSend(ctx)
	return sess
}

func (s clientSession) startSend(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.close()
			return
		case msg, opened := <-s.sendCh:
			if !opened {
				return
			}
			if err := s.send(msg); err != nil {
				log.WithError(err).Error("ошибка отправки сообщения в сокет")
			}
		}
	}
}

func (s clientSession) send(msg wsmodels.ServerMessage) error {
	if s.conn.Conn == nil {
		return nil
	}
	return s.conn.WriteJSON(msg)
}

func (s clientSession) close() {
	if s.conn == nil || s.conn.Conn == nil {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Millisecond))
	if err != nil {
		log.WithError(err).Error("не удалось закрыть соединение")
	}
}
