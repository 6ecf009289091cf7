package repository

import (
	"context"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
)

// CodeRepository 定义了代码快照的存储操作。快照是不可变的：
// 只有 Append 和读取，没有更新 (执行结果回填除外)。
type CodeRepository interface {
	// Append 追加一个新的代码快照。版本号由仓库在同一事务内分配为
	// (房间当前最大版本 + 1)，调用者不需要也不应该预先填写 Version。
	Append(ctx context.Context, snapshot *domain.CodeSnapshot) error

	// Latest 返回房间 created_at 最新的快照。
	// 房间还没有任何快照时返回 ErrNotFound。
	Latest(ctx context.Context, roomID uint) (*domain.CodeSnapshot, error)

	// AttachExecutionResult 将执行结果回填到房间的最新快照上。
	AttachExecutionResult(ctx context.Context, roomID uint, result string) error

	// ListByRoom 按创建时间倒序列出房间的全部快照 (房间详情视图)。
	ListByRoom(ctx context.Context, roomID uint) ([]domain.CodeSnapshot, error)
}
