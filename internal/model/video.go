package model

import "time"

// 视频分类
const (
	CategoryShort = "short"
	CategoryLong  = "long"
)

// Video 视频模型
// ID 为业务层生成的字符串标识（video_<时间戳>_<随机后缀>），
// 在任何 I/O 之前生成，入库前主文件必须已经上传成功。
type Video struct {
	ID            string    `gorm:"primaryKey;size:64;comment:视频标识" json:"id"`
	OwnerID       int64     `gorm:"not null;index:idx_owner_id;comment:上传用户ID" json:"owner_id"`
	Title         string    `gorm:"size:200;not null;comment:视频标题" json:"title"`
	Description   string    `gorm:"type:text;comment:视频描述" json:"description"`
	Category      string    `gorm:"size:20;not null;index:idx_category;comment:视频分类（short/long）" json:"category"`
	ShortCategory string    `gorm:"size:50;comment:短视频子分类" json:"short_category"`
	VideoPath     string    `gorm:"size:500;not null;comment:视频对象存储路径" json:"video_path"`
	ThumbnailPath string    `gorm:"size:500;comment:封面对象存储路径（可为空）" json:"thumbnail_path"`
	Duration      int       `gorm:"default:0;comment:视频时长（秒）" json:"duration"`
	FileSize      int64     `gorm:"default:0;comment:文件大小（字节）" json:"file_size"`
	FileFormat    string    `gorm:"size:20;comment:文件格式" json:"file_format"`
	ViewCount     int64     `gorm:"default:0;comment:播放量" json:"view_count"`
	LikeCount     int64     `gorm:"default:0;comment:点赞数" json:"like_count"`
	CommentCount  int64     `gorm:"default:0;comment:评论数" json:"comment_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_videos_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Owner     User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Favorites []Favorite `gorm:"foreignKey:VideoID" json:"favorites,omitempty"`
	Comments  []Comment  `gorm:"foreignKey:VideoID" json:"comments,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
