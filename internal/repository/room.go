package repository

import (
	"context"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
)

// RoomRepository 定义了房间数据的存储和检索操作。
type RoomRepository interface {
	// FindByRoomID 根据对外公开的房间标识查找房间。
	// 如果房间不存在，返回 ErrRoomNotFound。
	FindByRoomID(ctx context.Context, roomID string) (*domain.Room, error)

	// Save 保存房间信息。如果房间已存在 (基于主键)，则更新；否则创建。
	Save(ctx context.Context, room *domain.Room) error

	// TouchLastActive 刷新房间的最后活跃时间。
	TouchLastActive(ctx context.Context, id uint) error

	// Delete 删除房间及其级联数据 (参与记录、代码快照、文件、聊天历史)。
	// 这是系统中唯一的级联破坏性操作。
	Delete(ctx context.Context, id uint) error
}
