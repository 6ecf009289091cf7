package repository

import (
	"context"
	"time"
)

// PresenceRepository 定义了基于内存态存储 (Redis) 的房间在线状态操作。
// 它是 last_activity 列的快速路径镜像：活跃 = 最后活动时间落在滑动窗口内。
type PresenceRepository interface {
	// Touch 记录用户在房间内的一次活动。
	Touch(ctx context.Context, roomID string, userID uint, at time.Time) error

	// ActiveCount 统计窗口内有活动的用户数，并顺带清理窗口外的过期成员。
	ActiveCount(ctx context.Context, roomID string, window time.Duration) (int64, error)

	// Clear 清除房间的全部在线状态 (房间删除时调用)。
	Clear(ctx context.Context, roomID string) error
}
