package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
)

// GormSessionRepository 是 SessionRepository 接口的 GORM 实现
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository 创建 GormSessionRepository 实例
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	if db == nil {
		panic("database connection cannot be nil for GormSessionRepository")
	}
	return &GormSessionRepository{db: db}
}

// Find 实现查找 (user, room) 参与记录
func (r *GormSessionRepository) Find(ctx context.Context, userID, roomID uint) (*domain.UserSession, error) {
	var session domain.UserSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("gorm: find session (user %d, room %d): %w", userID, roomID, err)
	}
	return &session, nil
}

// Upsert 实现参与记录的创建或重新激活。
// 依赖 (user_id, room_id) 唯一索引，使用单条 INSERT ... ON DUPLICATE KEY UPDATE
// 保证行级原子性，不需要显式事务。
func (r *GormSessionRepository) Upsert(ctx context.Context, userID, roomID uint) error {
	now := time.Now().UTC()
	session := domain.UserSession{
		UserID:       userID,
		RoomID:       roomID,
		LastActivity: now,
		IsActive:     true,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_active": true, "last_activity": now}),
	}).Create(&session).Error
	if err != nil {
		return fmt.Errorf("gorm: upsert session (user %d, room %d): %w", userID, roomID, err)
	}
	return nil
}

// Deactivate 实现参与记录的失活标记，记录保留。
func (r *GormSessionRepository) Deactivate(ctx context.Context, userID, roomID uint) error {
	err := r.db.WithContext(ctx).Model(&domain.UserSession{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Updates(map[string]interface{}{"is_active": false, "last_activity": time.Now().UTC()}).Error
	if err != nil {
		return fmt.Errorf("gorm: deactivate session (user %d, room %d): %w", userID, roomID, err)
	}
	return nil
}

// Touch 实现最后活动时间刷新
func (r *GormSessionRepository) Touch(ctx context.Context, userID, roomID uint) error {
	err := r.db.WithContext(ctx).Model(&domain.UserSession{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Update("last_activity", time.Now().UTC()).Error
	if err != nil {
		return fmt.Errorf("gorm: touch session (user %d, room %d): %w", userID, roomID, err)
	}
	return nil
}

// CountActive 实现活跃参与者计数 (last_activity 落在 window 窗口内)
func (r *GormSessionRepository) CountActive(ctx context.Context, roomID uint, window time.Duration) (int64, error) {
	var count int64
	cutoff := time.Now().UTC().Add(-window)
	err := r.db.WithContext(ctx).Model(&domain.UserSession{}).
		Where("room_id = ? AND last_activity >= ?", roomID, cutoff).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count active sessions for room %d: %w", roomID, err)
	}
	return count, nil
}

// ListByRoom 实现房间参与记录列表
func (r *GormSessionRepository) ListByRoom(ctx context.Context, roomID uint) ([]domain.UserSession, error) {
	var sessions []domain.UserSession
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list sessions for room %d: %w", roomID, err)
	}
	return sessions, nil
}

// DeactivateIdle 实现批量失活超时记录，供后台清理任务使用
func (r *GormSessionRepository) DeactivateIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.UserSession{}).
		Where("is_active = ? AND last_activity < ?", true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: deactivate idle sessions before %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}
	return result.RowsAffected, nil
}
