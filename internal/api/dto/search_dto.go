package dto

// SearchVideoRequest 搜索请求参数
type SearchVideoRequest struct {
	Q         string  `form:"q"`
	OwnerID   *int64  `form:"owner_id"`
	VideoID   *string `form:"video_id"`
	Category  string  `form:"category" binding:"omitempty,oneof=short long"`
	Sort      string  `form:"sort"` // relevance, time, hot
	StartTime *int64  `form:"start_time"`
	EndTime   *int64  `form:"end_time"`
	Page      int     `form:"page"`
	PageSize  int     `form:"page_size"`
}

// SearchVideoInfo 搜索结果中的视频信息
type SearchVideoInfo struct {
	ID           string              `json:"id"`
	OwnerID      int64               `json:"owner_id"`
	OwnerName    string              `json:"owner_name"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	PlayURL      string              `json:"play_url"`
	ThumbnailURL string              `json:"thumbnail_url"`
	ViewCount    int64               `json:"view_count"`
	LikeCount    int64               `json:"like_count"`
	CommentCount int64               `json:"comment_count"`
	CreatedAt    int64               `json:"created_at"`
	Highlight    map[string][]string `json:"highlight,omitempty"`
}

// SearchVideoData 搜索结果
type SearchVideoData struct {
	Videos     []SearchVideoInfo `json:"videos"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int64             `json:"total_pages"`
}
