package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
)

// CodeHandler 提供 WebSocket 之外的 HTTP 代码保存入口，
// 供脚本化客户端或没有活跃 socket 连接的调用方使用。
type CodeHandler struct {
	roomService *service.RoomService
	registry    *service.SessionService
}

// NewCodeHandler 创建 CodeHandler 实例
func NewCodeHandler(roomService *service.RoomService, registry *service.SessionService) *CodeHandler {
	return &CodeHandler{roomService: roomService, registry: registry}
}

// SaveCodeRequest 定义 HTTP 保存代码请求的结构体
type SaveCodeRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language"`
}

// SaveCode 把一份代码快照保存到房间。调用者必须是房间成员。
// 与 code_update 事件走同一条持久化路径，版本号同样由仓库分配。
func (h *CodeHandler) SaveCode(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")

	var req SaveCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.SaveCode: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: code is required"})
		return
	}

	room, err := h.roomService.Authorize(c.Request.Context(), roomID, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	snapshot, err := h.registry.SaveCode(c.Request.Context(), room, userID, req.Code, req.Language)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"room_id": roomID,
			"user_id": userID,
		}).Error("Handler.SaveCode: Failed to save code snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":   roomID,
		"version":   snapshot.Version,
		"language":  snapshot.Language,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
