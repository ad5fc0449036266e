package repository

import (
	"dorphin/internal/model"

	"gorm.io/gorm"
)

type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

// Create 创建关注关系
func (r *RelationRepository) Create(followerID, followID int64) (*model.Relation, error) {
	relation := &model.Relation{
		FollowerID: followerID,
		FollowID:   followID,
	}
	if err := r.db.Create(relation).Error; err != nil {
		return nil, err
	}
	return relation, nil
}

// Delete 删除关注关系
func (r *RelationRepository) Delete(followerID, followID int64) (bool, error) {
	result := r.db.Where("follower_id = ? AND follow_id = ?", followerID, followID).
		Delete(&model.Relation{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查是否已关注
func (r *RelationRepository) Exists(followerID, followID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Relation{}).
		Where("follower_id = ? AND follow_id = ?", followerID, followID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingList 获取关注的用户 ID 列表
func (r *RelationRepository) GetFollowingList(followerID int64, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Relation{}).
		Where("follower_id = ?", followerID).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Pluck("follow_id", &ids).Error
	return ids, err
}

// GetFollowerList 获取粉丝的用户 ID 列表
func (r *RelationRepository) GetFollowerList(followID int64, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Relation{}).
		Where("follow_id = ?", followID).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// CountFollowing 统计关注数
func (r *RelationRepository) CountFollowing(followerID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Relation{}).
		Where("follower_id = ?", followerID).Count(&count).Error
	return count, err
}

// CountFollowers 统计粉丝数
func (r *RelationRepository) CountFollowers(followID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Relation{}).
		Where("follow_id = ?", followID).Count(&count).Error
	return count, err
}

// GetMutualFollowIDs 获取互相关注的用户 ID 列表
func (r *RelationRepository) GetMutualFollowIDs(userID int64, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Relation{}).
		Select("relations.follow_id").
		Joins("JOIN relations r2 ON r2.follower_id = relations.follow_id AND r2.follow_id = relations.follower_id").
		Where("relations.follower_id = ?", userID).
		Order("relations.created_at DESC").
		Offset(skip).Limit(limit).
		Pluck("relations.follow_id", &ids).Error
	return ids, err
}

// CountMutualFollows 统计互相关注数量
func (r *RelationRepository) CountMutualFollows(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Relation{}).
		Joins("JOIN relations r2 ON r2.follower_id = relations.follow_id AND r2.follow_id = relations.follower_id").
		Where("relations.follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// BatchCheckFollowing 批量查询关注状态
func (r *RelationRepository) BatchCheckFollowing(followerID int64, targetIDs []int64) (map[int64]bool, error) {
	if len(targetIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var followedIDs []int64
	err := r.db.Model(&model.Relation{}).
		Where("follower_id = ? AND follow_id IN ?", followerID, targetIDs).
		Pluck("follow_id", &followedIDs).Error
	if err != nil {
		return nil, err
	}

	followedSet := make(map[int64]bool, len(followedIDs))
	for _, id := range followedIDs {
		followedSet[id] = true
	}

	result := make(map[int64]bool, len(targetIDs))
	for _, id := range targetIDs {
		result[id] = followedSet[id]
	}
	return result, nil
}
