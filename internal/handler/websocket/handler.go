// Package websocket 实现连接网关：授权检查、协议升级和客户端注册。
package websocket

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/hub"
	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
)

// WebSocketHandler 负责处理 WebSocket 升级请求和客户端注册。
// 所有授权检查都在协议升级之前完成，失败时返回普通 HTTP 错误。
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	roomService *service.RoomService
	authService *service.AuthService
}

// NewWebSocketHandler 创建 WebSocketHandler 实例
func NewWebSocketHandler(h *hub.Hub, roomService *service.RoomService, authService *service.AuthService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if roomService == nil {
		panic("RoomService cannot be nil for WebSocketHandler")
	}
	if authService == nil {
		panic("AuthService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// 允许所有来源连接 (生产环境应配置具体的允许来源)
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return &WebSocketHandler{
		upgrader:    upgrader,
		hub:         h,
		roomService: roomService,
		authService: authService,
	}
}

// HandleConnection 处理 WebSocket 连接请求
// URL 预期格式: /ws/room/{roomID}
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	// 1. 获取认证用户 ID (由 Auth 中间件设置)
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logrus.Warn("WS Handler: User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("WS Handler: User ID in context is not uint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	roomID := c.Param("roomID")
	logCtx := logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"room_id": roomID,
	})

	// 2. 升级前完成授权：房间必须存在且调用者是成员
	room, err := h.roomService.Authorize(c.Request.Context(), roomID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			logCtx.Warn("WS Handler: Room not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, service.ErrAccessDenied):
			logCtx.Warn("WS Handler: Access to room denied")
			c.JSON(http.StatusForbidden, gin.H{"error": "Access to this room is denied"})
		default:
			logCtx.WithError(err).Error("WS Handler: Error authorizing room access")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate room access"})
		}
		return
	}

	// 3. 解析用户名，用于广播消息署名
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		logCtx.WithError(err).Error("WS Handler: Failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	// 4. 升级 HTTP 连接到 WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写了 HTTP 错误响应，这里只记录日志
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	// 5. 创建绑定身份的客户端并注册到 Hub
	client := hub.NewClient(h.hub, conn, room, userID, user.Username)
	if !h.hub.QueueMessage(hub.HubMessage{Type: "register", Client: client}) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		conn.Close()
		return
	}
	logCtx.Info("WS Handler: Client registration request queued to Hub")

	// 6. 启动读写泵。ReadPump 占用当前 goroutine 直到连接结束。
	client.Run()
}
