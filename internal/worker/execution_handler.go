package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
	"github.com/Aathi-pr/collaborative-code-editor/internal/service"
	"github.com/Aathi-pr/collaborative-code-editor/internal/tasks"
)

// ExecutionRecordHandler 把沙箱执行结果附加到房间的最新代码快照上。
// 结果记录是尽力而为的审计信息，不影响执行请求本身的响应。
type ExecutionRecordHandler struct {
	roomRepo repository.RoomRepository
	registry *service.SessionService
}

// NewExecutionRecordHandler 创建 Handler 实例
func NewExecutionRecordHandler(roomRepo repository.RoomRepository, registry *service.SessionService) *ExecutionRecordHandler {
	return &ExecutionRecordHandler{roomRepo: roomRepo, registry: registry}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *ExecutionRecordHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	var payload tasks.ExecutionRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal execution record payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("room_id", payload.RoomID)

	room, err := h.roomRepo.FindByRoomID(ctx, payload.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			// 房间在任务入队后被删除：无事可做
			logCtx.Warn("Room gone before execution result could be recorded")
			return nil
		}
		return fmt.Errorf("failed to load room %s: %w", payload.RoomID, err)
	}

	resultJSON, err := json.Marshal(payload.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal execution result: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.registry.RecordExecutionResult(ctx, room, string(resultJSON)); err != nil {
		return fmt.Errorf("failed to record execution result for room %s: %w", payload.RoomID, err)
	}

	logCtx.WithField("success", payload.Result.Success).Info("Execution result recorded")
	return nil
}
