package repository

import (
	"dorphin/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create 插入视频记录（主键冲突由数据库唯一约束兜底）
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// GetByID 根据 ID 获取视频
func (r *VideoRepository) GetByID(id string) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDWithOwner 根据 ID 获取视频（含作者信息）
func (r *VideoRepository) GetByIDWithOwner(id string) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Owner").Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDAndOwner 根据视频 ID + 作者 ID 查询（权限校验用）
func (r *VideoRepository) GetByIDAndOwner(videoID string, ownerID int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ? AND owner_id = ?", videoID, ownerID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Exists 检查视频记录是否存在（孤儿文件回收用）
func (r *VideoRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update 更新视频字段
func (r *VideoRepository) Update(id string, updates map[string]interface{}) (*model.Video, error) {
	result := r.db.Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除视频记录（物理删除，对应的存储对象由调用方清理）
func (r *VideoRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Video{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListVideos 视频列表查询（分页、筛选、排序）
func (r *VideoRepository) ListVideos(skip, limit int, ownerID *int64, category *string, search *string, withOwner bool) ([]model.Video, int64, error) {
	query := r.db.Model(&model.Video{})

	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	if category != nil && *category != "" {
		query = query.Where("category = ?", *category)
	}
	if search != nil && *search != "" {
		query = query.Where("title ILIKE ? OR description ILIKE ?", "%"+*search+"%", "%"+*search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	findQuery := query.Order("created_at DESC").Offset(skip).Limit(limit)
	if withOwner {
		findQuery = findQuery.Preload("Owner")
	}

	var videos []model.Video
	if err := findQuery.Find(&videos).Error; err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// GetByIDsWithOwner 批量查询视频（含作者信息，搜索回表用）
func (r *VideoRepository) GetByIDsWithOwner(ids []string) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.Preload("Owner").Where("id IN ?", ids).Find(&videos).Error
	return videos, err
}

// IncrementViewCount 观看数 +1
func (r *VideoRepository) IncrementViewCount(id string) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// IncrementCommentCount 评论数 +1
func (r *VideoRepository) IncrementCommentCount(id string) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
}

// DecrementCommentCount 评论数 -1
func (r *VideoRepository) DecrementCommentCount(id string) error {
	return r.db.Model(&model.Video{}).Where("id = ? AND comment_count > 0", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
}

// IncrementLikeCount 点赞数 +1
func (r *VideoRepository) IncrementLikeCount(id string) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
}

// DecrementLikeCount 点赞数 -1
func (r *VideoRepository) DecrementLikeCount(id string) error {
	return r.db.Model(&model.Video{}).Where("id = ? AND like_count > 0", id).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
}
