package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/sandbox"
	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
	"github.com/Aathi-pr/collaborative-code-editor/internal/tasks"
)

// ExecuteHandler 接收代码执行请求，交给沙箱同步运行，
// 并把执行结果作为后台任务附加到房间的最新快照上。
type ExecuteHandler struct {
	roomService *service.RoomService
	registry    *service.SessionService
	runner      *sandbox.Runner
	taskClient  *asynq.Client
}

// NewExecuteHandler 创建 ExecuteHandler 实例。
// taskClient 可为 nil，此时跳过执行结果的后台记录。
func NewExecuteHandler(roomService *service.RoomService, registry *service.SessionService, runner *sandbox.Runner, taskClient *asynq.Client) *ExecuteHandler {
	return &ExecuteHandler{
		roomService: roomService,
		registry:    registry,
		runner:      runner,
		taskClient:  taskClient,
	}
}

// ExecuteRequest 定义代码执行请求的结构体
type ExecuteRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
	RoomID   string `json:"room_id" binding:"required"`
}

// ExecuteResponse 定义代码执行的响应结构体
type ExecuteResponse struct {
	Status          string `json:"status"`
	Output          string `json:"output"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
	TimedOut        bool   `json:"timed_out,omitempty"`
}

// Execute 处理代码执行请求。
// 请求同步等待沙箱结果；执行者必须是房间成员。
func (h *ExecuteHandler) Execute(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Execute: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: code, language and room_id are required"})
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"room_id":  req.RoomID,
		"language": req.Language,
	})

	// 只允许房间成员在该房间下执行代码
	room, err := h.roomService.Authorize(c.Request.Context(), req.RoomID, userID)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.Execute: Authorization failed")
		HandleServiceError(c, err)
		return
	}

	// 执行算一次活动心跳，失败不阻断主流程
	if err := h.registry.TouchActivity(c.Request.Context(), room, userID); err != nil {
		logCtx.WithError(err).Warn("Handler.Execute: Failed to touch activity")
	}

	result, err := h.runner.Run(c.Request.Context(), req.Code, req.Language)
	if err != nil {
		if errors.Is(err, sandbox.ErrUnsupportedLanguage) {
			logCtx.Warn("Handler.Execute: Unsupported language requested")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logCtx.WithError(err).Error("Handler.Execute: Sandbox infrastructure failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Code execution service unavailable"})
		return
	}

	h.enqueueExecutionRecord(req.RoomID, userID, result, logCtx)

	resp := ExecuteResponse{
		Status:          "success",
		Output:          result.Output,
		ExecutionTimeMs: result.ExecutionTimeMs,
		TimedOut:        result.TimedOut,
	}
	if !result.Success {
		resp.Status = "error"
		resp.Output = result.Error
	}
	logCtx.WithFields(logrus.Fields{
		"success":    result.Success,
		"timed_out":  result.TimedOut,
		"elapsed_ms": result.ExecutionTimeMs,
	}).Info("Handler.Execute: Execution finished")
	c.JSON(http.StatusOK, resp)
}

// enqueueExecutionRecord 把执行结果记录任务入队 (尽力而为)。
func (h *ExecuteHandler) enqueueExecutionRecord(roomID string, userID uint, result *sandbox.Result, logCtx *logrus.Entry) {
	if h.taskClient == nil || result == nil {
		return
	}
	payload, err := tasks.NewExecutionRecordPayload(roomID, userID, *result)
	if err != nil {
		logCtx.WithError(err).Error("Handler.Execute: Failed to build execution record payload")
		return
	}
	task := asynq.NewTask(tasks.TypeExecutionRecord, payload, asynq.Queue("low"))
	if _, err := h.taskClient.Enqueue(task); err != nil {
		logCtx.WithError(err).Error("Handler.Execute: Failed to enqueue execution record task")
	}
}
