package handler

import (
	"dorphin/internal/api/dto"
	"dorphin/internal/api/middleware"
	"dorphin/internal/api/response"
	"dorphin/internal/service"
	"dorphin/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	unreadOnly := c.Query("unread_only") == "true"

	data, err := h.notificationService.List(userID, unreadOnly, page, pageSize)
	if err != nil {
		logger.Error("List notifications failed", zap.Error(err))
		response.InternalError(c, "获取通知列表失败")
		return
	}

	response.OK(c, "获取通知列表成功", data)
}

// MarkRead POST /api/v1/notifications/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	var req dto.NotificationMarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	updated, err := h.notificationService.MarkRead(userID, req.IDs)
	if err != nil {
		logger.Error("Mark notifications read failed", zap.Error(err))
		response.InternalError(c, "标记已读失败")
		return
	}

	response.OK(c, "标记已读成功", gin.H{
		"updated": updated,
	})
}

// MarkAllRead POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.GetCurrentUserID(c)

	updated, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		logger.Error("Mark all notifications read failed", zap.Error(err))
		response.InternalError(c, "标记全部已读失败")
		return
	}

	response.OK(c, "标记全部已读成功", gin.H{
		"updated": updated,
	})
}
