package domain

import "time"

// ChatMessage 表示房间内的一条聊天消息，只追加，不支持编辑或删除。
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null"`
	UserID    uint      `gorm:"index;not null"`
	Message   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"index;not null"`
}
