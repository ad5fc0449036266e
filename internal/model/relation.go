package model

import "time"

// Relation 关注关系：FollowerID 关注了 FollowID
// 同一对用户只允许存在一条记录。
type Relation struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:关系id" json:"id"`
	FollowID   int64     `gorm:"not null;uniqueIndex:uniq_follow_pair;index:idx_relations_follow;comment:被关注的用户id" json:"follow_id"`
	FollowerID int64     `gorm:"not null;uniqueIndex:uniq_follow_pair;index:idx_relations_follower;comment:粉丝用户id" json:"follower_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_relations_created;comment:关注时间" json:"created_at"`
}

func (Relation) TableName() string {
	return "relations"
}
