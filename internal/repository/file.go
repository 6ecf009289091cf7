package repository

import (
	"context"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
)

// FileRepository 定义了房间文件的存储操作。
// (room, filename) 组合唯一，所有查询都以房间为作用域。
type FileRepository interface {
	// Upsert 按 (room, filename) 创建或更新文件内容 (行级原子 upsert)。
	Upsert(ctx context.Context, entry *domain.FileEntry) error

	// Delete 删除房间内指定名称的文件。文件不存在时返回 ErrFileNotFound。
	Delete(ctx context.Context, roomID uint, filename string) error

	// Rename 原地修改文件名。旧文件不存在返回 ErrFileNotFound，
	// 新名称已被占用返回 ErrDuplicateEntry。
	Rename(ctx context.Context, roomID uint, oldName, newName string) error

	// ListByRoom 按文件名排序列出房间的全部文件。
	ListByRoom(ctx context.Context, roomID uint) ([]domain.FileEntry, error)
}
