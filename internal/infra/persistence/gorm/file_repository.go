package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
)

// GormFileRepository 是 FileRepository 接口的 GORM 实现
type GormFileRepository struct {
	db *gorm.DB
}

// NewGormFileRepository 创建 GormFileRepository 实例
func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	if db == nil {
		panic("database connection cannot be nil for GormFileRepository")
	}
	return &GormFileRepository{db: db}
}

// Upsert 实现按 (room, filename) 的行级原子 upsert。
// 依赖 (room_id, filename) 唯一索引，冲突时只更新内容和更新时间。
func (r *GormFileRepository) Upsert(ctx context.Context, entry *domain.FileEntry) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "room_id"}, {Name: "filename"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"content":    entry.Content,
			"updated_at": time.Now().UTC(),
		}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("gorm: upsert file '%s' in room %d: %w", entry.Filename, entry.RoomID, err)
	}
	return nil
}

// Delete 实现房间内文件删除
func (r *GormFileRepository) Delete(ctx context.Context, roomID uint, filename string) error {
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND filename = ?", roomID, filename).
		Delete(&domain.FileEntry{})
	if result.Error != nil {
		return fmt.Errorf("gorm: delete file '%s' in room %d: %w", filename, roomID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrFileNotFound
	}
	return nil
}

// Rename 实现文件重命名 (原地改键)。
func (r *GormFileRepository) Rename(ctx context.Context, roomID uint, oldName, newName string) error {
	result := r.db.WithContext(ctx).Model(&domain.FileEntry{}).
		Where("room_id = ? AND filename = ?", roomID, oldName).
		Updates(map[string]interface{}{"filename": newName, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		if isDuplicateEntryError(result.Error) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: rename file '%s' -> '%s' in room %d: %w", oldName, newName, roomID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrFileNotFound
	}
	return nil
}

// ListByRoom 实现房间文件列表 (按文件名排序)
func (r *GormFileRepository) ListByRoom(ctx context.Context, roomID uint) ([]domain.FileEntry, error) {
	var entries []domain.FileEntry
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("filename ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list files for room %d: %w", roomID, err)
	}
	return entries, nil
}
