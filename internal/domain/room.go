package domain

import "time"

// Room 表示一个协作代码编辑房间。
type Room struct {
	ID          uint      `gorm:"primaryKey"`                           // 内部主键
	RoomID      string    `gorm:"uniqueIndex;size:191;not null"`        // 对外公开的房间标识 (不透明字符串)
	CreatorID   uint      `gorm:"index;not null"`                       // 创建该房间的用户 ID
	Description string    `gorm:"type:text"`                            // 房间描述 (可选)
	IsPublic    bool      `gorm:"default:true"`                         // 房间可见性标志
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	LastActive  time.Time `gorm:"index"`                                // 房间最后活跃时间，任何房间活动都会刷新
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
