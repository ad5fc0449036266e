package dto

import "time"

// NotificationInfo 通知信息
type NotificationInfo struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	ActorID   int64     `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	VideoID   *string   `json:"video_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListData 通知列表数据
type NotificationListData struct {
	Notifications []NotificationInfo `json:"notifications"`
	UnreadCount   int64              `json:"unread_count"`
	Total         int64              `json:"total"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
	TotalPages    int64              `json:"total_pages"`
}

// NotificationMarkReadRequest 标记已读请求
type NotificationMarkReadRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,max=100"`
}
