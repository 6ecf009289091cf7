package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
)

// PresenceHandler 提供活跃人数查询和活动心跳接口。
type PresenceHandler struct {
	roomService *service.RoomService
	registry    *service.SessionService
}

// NewPresenceHandler 创建 PresenceHandler 实例
func NewPresenceHandler(roomService *service.RoomService, registry *service.SessionService) *PresenceHandler {
	return &PresenceHandler{roomService: roomService, registry: registry}
}

// ActiveCount 返回房间在活跃窗口内的参与人数。
func (h *PresenceHandler) ActiveCount(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")

	room, err := h.roomService.Authorize(c.Request.Context(), roomID, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	count, err := h.registry.ActiveCount(c.Request.Context(), room)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Handler.ActiveCount: Failed to count active participants")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count active participants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":      roomID,
		"active_count": count,
	})
}

// Heartbeat 刷新调用者在房间里的最后活动时间，并返回刷新后的活跃人数。
func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")

	room, err := h.roomService.Authorize(c.Request.Context(), roomID, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	if err := h.registry.TouchActivity(c.Request.Context(), room, userID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"room_id": roomID,
			"user_id": userID,
		}).Error("Handler.Heartbeat: Failed to touch activity")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	count, err := h.registry.ActiveCount(c.Request.Context(), room)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Handler.Heartbeat: Failed to count active participants")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count active participants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":      roomID,
		"active_count": count,
	})
}
