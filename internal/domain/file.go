package domain

import "time"

// FileEntry 表示房间内的一个文件。
// (room, filename) 组合唯一；创建/更新走按名 upsert，重命名原地改键，删除移除整行。
type FileEntry struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"not null;uniqueIndex:idx_room_filename;index"`
	Filename  string    `gorm:"size:191;not null;uniqueIndex:idx_room_filename"`
	Content   string    `gorm:"type:text"`
	CreatedBy uint      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
