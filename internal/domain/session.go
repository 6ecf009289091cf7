package domain

import "time"

// UserSession 表示用户在某个房间内的参与记录 (Participant)。
// (user, room) 组合唯一：首次加入时创建，重连时重新激活，
// 断开连接时只标记 is_active=false，记录本身保留。
type UserSession struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_room"`
	RoomID       uint      `gorm:"not null;uniqueIndex:idx_user_room;index"`
	JoinedAt     time.Time `gorm:"autoCreateTime"`
	LastActivity time.Time `gorm:"index;not null"` // 最后活动时间，后台清理任务依据此字段
	IsActive     bool      `gorm:"default:true"`
	CursorPos    string    `gorm:"type:text"` // 光标位置 (JSON，可选)
	Selection    string    `gorm:"type:text"` // 选区 (JSON，可选)
}
