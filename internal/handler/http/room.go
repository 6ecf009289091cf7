package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
)

// RoomHandler 封装了与房间管理相关的 HTTP 处理逻辑
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 创建 RoomHandler 实例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoomRequest 定义创建房间请求的结构体
type CreateRoomRequest struct {
	Description string `json:"description" binding:"max=500"`
	IsPublic    *bool  `json:"is_public"`
}

// CreateRoomResponse 定义创建房间成功的响应结构体
type CreateRoomResponse struct {
	Message string `json:"message"`
	RoomID  string `json:"room_id"`
}

// CreateRoom 处理创建新房间的请求。请求体可省略，默认公开房间。
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	var req CreateRoomRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logCtx.WithError(err).Warn("Handler.CreateRoom: Invalid input format")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	newRoom, err := h.roomService.CreateRoom(c.Request.Context(), userID, req.Description, isPublic)
	if err != nil {
		logCtx.WithError(err).Error("Handler.CreateRoom: Failed to create room via service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	logCtx.WithField("room_id", newRoom.RoomID).Info("Handler.CreateRoom: Room created successfully")
	c.JSON(http.StatusOK, CreateRoomResponse{
		Message: "Room created successfully",
		RoomID:  newRoom.RoomID,
	})
}

// GetRoom 返回房间详情 (元数据、参与者、快照历史)，仅成员可见。
func (h *RoomHandler) GetRoom(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")

	detail, err := h.roomService.GetRoomDetail(c.Request.Context(), roomID, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteRoom 删除房间及其全部关联数据，仅创建者可操作。
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	if err := h.roomService.DeleteRoom(c.Request.Context(), roomID, userID); err != nil {
		logCtx.WithError(err).Warn("Handler.DeleteRoom: Failed to delete room")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.DeleteRoom: Room deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
