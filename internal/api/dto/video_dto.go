package dto

import "time"

// VideoUploadRequest 视频上传请求（multipart/form-data）
type VideoUploadRequest struct {
	Title         string `form:"title" binding:"required,min=1,max=200"`
	Description   string `form:"description" binding:"omitempty"`
	Category      string `form:"category" binding:"required,oneof=short long"`
	ShortCategory string `form:"short_category" binding:"omitempty,max=100"`
	Duration      int    `form:"duration" binding:"omitempty,min=0"`
}

// VideoMetadataRequest 直传模式下的元数据提交请求
// 客户端已自行完成文件上传，这里只登记元数据。
type VideoMetadataRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=200"`
	Description   string `json:"description"`
	Category      string `json:"category" binding:"required,oneof=short long"`
	ShortCategory string `json:"short_category" binding:"omitempty,max=100"`
	Duration      int    `json:"duration" binding:"omitempty,min=0"`
	VideoPath     string `json:"video_path" binding:"required,max=500"`
	ThumbnailPath string `json:"thumbnail_path" binding:"omitempty,max=500"`
	FileSize      int64  `json:"file_size" binding:"omitempty,min=0"`
	FileFormat    string `json:"file_format" binding:"omitempty,max=20"`
}

// VideoUpdateRequest 视频更新请求
type VideoUpdateRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description   *string `json:"description"`
	ShortCategory *string `json:"short_category" binding:"omitempty,max=100"`
}

// OwnerBrief 视频中嵌套的作者简要信息
type OwnerBrief struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// VideoInfo 视频详情
type VideoInfo struct {
	ID            string      `json:"id"`
	OwnerID       int64       `json:"owner_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	ShortCategory string      `json:"short_category,omitempty"`
	VideoPath     string      `json:"video_path"`
	ThumbnailPath string      `json:"thumbnail_path"`
	PlayURL       string      `json:"play_url"`
	ThumbnailURL  string      `json:"thumbnail_url"`
	Duration      int         `json:"duration"`
	FileSize      int64       `json:"file_size"`
	FileFormat    string      `json:"file_format"`
	ViewCount     int64       `json:"view_count"`
	LikeCount     int64       `json:"like_count"`
	CommentCount  int64       `json:"comment_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Owner         *OwnerBrief `json:"owner,omitempty"`
}

// VideoListData 视频列表响应数据
type VideoListData struct {
	Videos     []VideoInfo `json:"videos"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}
