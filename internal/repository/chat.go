package repository

import (
	"context"
	"time"

	"github.com/Aathi-pr/collaborative-code-editor/internal/domain"
)

// ChatHistoryEntry 是一条带用户名的聊天历史记录 (读取视图)。
type ChatHistoryEntry struct {
	User      string    `json:"user"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRepository 定义了聊天消息的存储操作。消息只追加。
type ChatRepository interface {
	// Append 追加一条聊天消息。
	Append(ctx context.Context, msg *domain.ChatMessage) error

	// Recent 返回房间最近的 limit 条消息，按时间从新到旧排序，
	// 并联表带出发送者用户名。
	Recent(ctx context.Context, roomID uint, limit int) ([]ChatHistoryEntry, error)
}
