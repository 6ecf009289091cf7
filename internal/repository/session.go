package repository

import (
	"context"
	"time"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
)

// SessionRepository 定义了参与记录 (UserSession) 的存储操作。
// 所有操作都以房间为作用域，(user, room) 组合唯一。
type SessionRepository interface {
	// Find 查找指定用户在指定房间的参与记录。
	// 不存在时返回 ErrSessionNotFound。
	Find(ctx context.Context, userID, roomID uint) (*domain.UserSession, error)

	// Upsert 创建参与记录，或在记录已存在时将其重新激活并刷新活动时间。
	// 单次调用具有行级原子性。
	Upsert(ctx context.Context, userID, roomID uint) error

	// Deactivate 将参与记录标记为不活跃 (is_active=false)，记录保留不删除。
	Deactivate(ctx context.Context, userID, roomID uint) error

	// Touch 刷新参与记录的最后活动时间。
	Touch(ctx context.Context, userID, roomID uint) error

	// CountActive 统计房间内最后活动时间落在 window 窗口内的参与者数量。
	CountActive(ctx context.Context, roomID uint, window time.Duration) (int64, error)

	// ListByRoom 列出房间的全部参与记录 (房间详情视图)。
	ListByRoom(ctx context.Context, roomID uint) ([]domain.UserSession, error)

	// DeactivateIdle 将最后活动时间早于 cutoff 的活跃记录批量置为不活跃，
	// 返回受影响的行数。由后台清理任务调用。
	DeactivateIdle(ctx context.Context, cutoff time.Time) (int64, error)
}
