package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
)

// idleSessionWindow 是参与记录在没有任何心跳后被视为掉线的时长。
// 覆盖连接异常断开且 unregister 未能落库的情况。
const idleSessionWindow = 30 * time.Minute

// SessionCleanupHandler 周期性地失活长时间无心跳的参与记录。
type SessionCleanupHandler struct {
	sessionRepo repository.SessionRepository
}

// NewSessionCleanupHandler 创建 Handler 实例
func NewSessionCleanupHandler(sessionRepo repository.SessionRepository) *SessionCleanupHandler {
	return &SessionCleanupHandler{sessionRepo: sessionRepo}
}

// ProcessTask 实现 asynq.Handler 接口。任务无负载，由调度器周期触发。
func (h *SessionCleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-idleSessionWindow)

	affected, err := h.sessionRepo.DeactivateIdle(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).Error("Session cleanup task failed")
		return err
	}

	if affected > 0 {
		logrus.WithFields(logrus.Fields{
			"task_type":   t.Type(),
			"deactivated": affected,
			"cutoff":      cutoff.UTC().Format(time.RFC3339),
		}).Info("Idle sessions deactivated")
	}
	return nil
}
