package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
)

// GormCodeRepository 是 CodeRepository 接口的 GORM 实现
type GormCodeRepository struct {
	db *gorm.DB
}

// NewGormCodeRepository 创建 GormCodeRepository 实例
func NewGormCodeRepository(db *gorm.DB) *GormCodeRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCodeRepository")
	}
	return &GormCodeRepository{db: db}
}

// Append 实现代码快照的追加。
// 版本号分配与插入在同一事务内完成：版本 = 房间当前最大版本 + 1。
// REPEATABLE READ 下两个并发事务可能读到相同的 MAX：
// (room_id, version) 唯一索引兜底，后提交者拿到 ErrDuplicateEntry，由调用方重试。
func (r *GormCodeRepository) Append(ctx context.Context, snapshot *domain.CodeSnapshot) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxVersion uint
		err := tx.Model(&domain.CodeSnapshot{}).
			Where("room_id = ?", snapshot.RoomID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return err
		}
		snapshot.Version = maxVersion + 1
		return tx.Create(snapshot).Error
	})
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: append code snapshot for room %d: %w", snapshot.RoomID, err)
	}
	return nil
}

// Latest 实现获取房间最新快照 (按 created_at)
func (r *GormCodeRepository) Latest(ctx context.Context, roomID uint) (*domain.CodeSnapshot, error) {
	var snapshot domain.CodeSnapshot
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: latest code snapshot for room %d: %w", roomID, err)
	}
	return &snapshot, nil
}

// AttachExecutionResult 实现执行结果回填到房间最新快照
func (r *GormCodeRepository) AttachExecutionResult(ctx context.Context, roomID uint, result string) error {
	latest, err := r.Latest(ctx, roomID)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Model(&domain.CodeSnapshot{}).
		Where("id = ?", latest.ID).
		Update("execution_result", result).Error
	if err != nil {
		return fmt.Errorf("gorm: attach execution result to snapshot %d: %w", latest.ID, err)
	}
	return nil
}

// ListByRoom 实现房间快照列表 (按创建时间倒序)
func (r *GormCodeRepository) ListByRoom(ctx context.Context, roomID uint) ([]domain.CodeSnapshot, error) {
	var snapshots []domain.CodeSnapshot
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list code snapshots for room %d: %w", roomID, err)
	}
	return snapshots, nil
}
