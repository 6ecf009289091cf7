package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
	"github.com/Aathi-pr/collaborative-code-editor/internal/repository"
)

// GormChatRepository 是 ChatRepository 接口的 GORM 实现
type GormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository 创建 GormChatRepository 实例
func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	if db == nil {
		panic("database connection cannot be nil for GormChatRepository")
	}
	return &GormChatRepository{db: db}
}

// Append 实现聊天消息追加
func (r *GormChatRepository) Append(ctx context.Context, msg *domain.ChatMessage) error {
	err := r.db.WithContext(ctx).Create(msg).Error
	if err != nil {
		return fmt.Errorf("gorm: append chat message for room %d: %w", msg.RoomID, err)
	}
	return nil
}

// Recent 实现最近消息查询，联表带出发送者用户名，按时间从新到旧。
func (r *GormChatRepository) Recent(ctx context.Context, roomID uint, limit int) ([]repository.ChatHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []repository.ChatHistoryEntry
	err := r.db.WithContext(ctx).Model(&domain.ChatMessage{}).
		Select("users.username AS user, chat_messages.message, chat_messages.timestamp").
		Joins("JOIN users ON users.id = chat_messages.user_id").
		Where("chat_messages.room_id = ?", roomID).
		Order("chat_messages.timestamp DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: recent chat messages for room %d: %w", roomID, err)
	}
	return entries, nil
}
