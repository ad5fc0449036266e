package service

import (
	"dorphin/internal/api/dto"
	"dorphin/internal/model"
	"dorphin/internal/repository"
	"dorphin/pkg/logger"

	"go.uber.org/zap"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Notify 写入一条通知，自己给自己的动作不产生通知
// 通知是附属动作，失败只记日志，不影响触发它的主流程。
func (s *NotificationService) Notify(kind string, userID, actorID int64, videoID *string) {
	if userID == actorID {
		return
	}

	n := &model.Notification{
		UserID:  userID,
		ActorID: actorID,
		Kind:    kind,
		VideoID: videoID,
	}
	if err := s.notificationRepo.Create(n); err != nil {
		logger.Warn("Failed to create notification",
			zap.String("kind", kind),
			zap.Int64("user_id", userID),
			zap.Int64("actor_id", actorID),
			zap.Error(err),
		)
	}
}

// List 获取通知列表
func (s *NotificationService) List(userID int64, unreadOnly bool, page, pageSize int) (*dto.NotificationListData, error) {
	skip := (page - 1) * pageSize
	notifications, total, err := s.notificationRepo.ListByUser(userID, unreadOnly, skip, pageSize)
	if err != nil {
		return nil, err
	}

	unread, _ := s.notificationRepo.CountUnread(userID)

	items := make([]dto.NotificationInfo, 0, len(notifications))
	for i := range notifications {
		items = append(items, *toNotificationInfo(&notifications[i]))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.NotificationListData{
		Notifications: items,
		UnreadCount:   unread,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
	}, nil
}

// MarkRead 标记指定通知为已读，返回实际更新条数
func (s *NotificationService) MarkRead(userID int64, ids []int64) (int64, error) {
	return s.notificationRepo.MarkRead(userID, ids)
}

// MarkAllRead 标记全部通知为已读
func (s *NotificationService) MarkAllRead(userID int64) (int64, error) {
	return s.notificationRepo.MarkAllRead(userID)
}

func toNotificationInfo(n *model.Notification) *dto.NotificationInfo {
	info := &dto.NotificationInfo{
		ID:        n.ID,
		Kind:      n.Kind,
		ActorID:   n.ActorID,
		VideoID:   n.VideoID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.Actor.ID != 0 {
		info.ActorName = n.Actor.UserName
	}
	return info
}
