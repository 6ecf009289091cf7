package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
)

// Client 代表一个已通过授权的 WebSocket 连接。
// 连接身份 (房间、用户) 在创建时绑定，之后不可变；
// Hub 的所有路由决策都只依赖这里的字段，不再查请求上下文。
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	room     *domain.Room
	userID   uint
	username string

	// 发往此客户端的消息缓冲通道，由 Hub 关闭
	send chan []byte
}

// NewClient 创建一个绑定到指定房间和用户的客户端。
func NewClient(h *Hub, conn *websocket.Conn, room *domain.Room, userID uint, username string) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		room:     room,
		userID:   userID,
		username: username,
		send:     make(chan []byte, 256),
	}
}

// Room 返回此连接绑定的房间。
func (c *Client) Room() *domain.Room { return c.room }

// RoomID 返回房间的公开标识。
func (c *Client) RoomID() string { return c.room.RoomID }

// UserID 返回此连接的用户 ID。
func (c *Client) UserID() uint { return c.userID }

// Username 返回此连接的用户名，用于广播消息的署名。
func (c *Client) Username() string { return c.username }

// Run 启动此客户端的读写泵。WritePump 在新 goroutine 中运行，
// ReadPump 占用当前 goroutine 直到连接终止。
func (c *Client) Run() {
	go c.WritePump()
	c.ReadPump()
}

// ReadPump 将 WebSocket 连接上的消息泵入 Hub。
// 无论连接如何退出 (正常关闭、错误、超时)，defer 都保证注销被执行，
// 参与记录最终会被标记为不活跃。
func (c *Client) ReadPump() {
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": c.RoomID(),
		"user_id": c.userID,
	})

	defer func() {
		if !c.hub.QueueMessage(HubMessage{Type: "unregister", Client: c}) {
			// Hub 队列满时直接执行注销，绝不让失活标记丢失
			logCtx.Warn("Hub queue full on disconnect, unregistering directly")
			c.hub.unregisterClient(c)
		}
		c.conn.Close()
		logCtx.Info("ReadPump stopped, client connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logCtx.WithError(err).Error("Unexpected WebSocket close error")
			} else {
				logCtx.WithError(err).Info("WebSocket connection closed")
			}
			break
		}

		if !c.hub.QueueMessage(HubMessage{Type: "event", Client: c, RawData: message}) {
			logCtx.Warn("Hub queue full, client event dropped")
		}
	}
}

// WritePump 将 Hub 发来的消息写到 WebSocket 连接，并定期发送 ping。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": c.RoomID(),
		"user_id": c.userID,
	})

	defer func() {
		ticker.Stop()
		c.conn.Close()
		logCtx.Info("WritePump stopped")
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 关闭了通道
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logCtx.WithError(err).Warn("Failed to write message to WebSocket")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logCtx.WithError(err).Warn("Failed to write ping message")
				return
			}
		}
	}
}
