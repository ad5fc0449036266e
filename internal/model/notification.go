package model

import "time"

// 通知类型
const (
	NotifyKindComment = "comment"
	NotifyKindLike    = "like"
	NotifyKindFollow  = "follow"
)

// Notification 通知模型
// 点赞/评论/关注时写入，写入失败不影响主流程。
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:通知ID" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_notifications_user_id;comment:接收通知的用户ID" json:"user_id"`
	ActorID   int64     `gorm:"not null;comment:触发通知的用户ID" json:"actor_id"`
	Kind      string    `gorm:"size:20;not null;comment:通知类型（comment/like/follow）" json:"kind"`
	VideoID   *string   `gorm:"size:64;comment:相关视频ID" json:"video_id"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_is_read;comment:是否已读" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_notifications_created_at;comment:通知时间" json:"created_at"`

	// 关联关系
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
