package domain

import "time"

// CodeSnapshot 表示房间代码内容的一次不可变版本记录。
// 版本号在创建时分配为 (房间当前最大版本 + 1)，创建后不再变更；
// 新加入者看到的"当前代码"是 created_at 最新的一条。
type CodeSnapshot struct {
	ID              uint      `gorm:"primaryKey"`
	RoomID          uint      `gorm:"not null;uniqueIndex:idx_room_version"`
	CreatedBy       uint      `gorm:"index;not null"`
	CodeContent     string    `gorm:"type:text;not null"`
	Language        string    `gorm:"size:20;not null"`
	Version         uint      `gorm:"not null;uniqueIndex:idx_room_version"`
	ExecutionResult string    `gorm:"type:text"` // 可选：该版本代码的执行结果
	CreatedAt       time.Time `gorm:"autoCreateTime;index"`
}
