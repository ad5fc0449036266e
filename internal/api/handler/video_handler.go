package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"dorphin/internal/api/dto"
	"dorphin/internal/api/middleware"
	"dorphin/internal/api/response"
	"dorphin/internal/service"
	"dorphin/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// Upload POST /api/v1/videos/upload
func (h *VideoHandler) Upload(c *gin.Context) {
	var req dto.VideoUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	videoFile, err := c.FormFile("video_file")
	if err != nil {
		response.BadRequest(c, "请上传视频文件")
		return
	}

	vf, err := videoFile.Open()
	if err != nil {
		response.InternalError(c, "打开上传文件失败")
		return
	}
	defer vf.Close()

	publishReq := &service.PublishRequest{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		ShortCategory: req.ShortCategory,
		Duration:      req.Duration,
		Video: service.Blob{
			Reader:   vf,
			Size:     videoFile.Size,
			Filename: videoFile.Filename,
		},
	}

	// 封面可选，打不开就当没传
	var tf multipart.File
	if thumbFile, err := c.FormFile("thumbnail_file"); err == nil {
		tf, err = thumbFile.Open()
		if err == nil {
			defer tf.Close()
			publishReq.Thumbnail = &service.Blob{
				Reader:   tf,
				Size:     thumbFile.Size,
				Filename: thumbFile.Filename,
			}
		}
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.Publish(c.Request.Context(), currentUserID, publishReq)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.Created(c, "视频发布成功", info)
}

// CommitMetadata POST /api/v1/videos/metadata
func (h *VideoHandler) CommitMetadata(c *gin.Context) {
	var req dto.VideoMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.CommitMetadata(c.Request.Context(), currentUserID, &req)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.Created(c, "视频元数据登记成功", info)
}

// GetFeed GET /api/v1/videos/feed（公开，不需要登录）
func (h *VideoHandler) GetFeed(c *gin.Context) {
	page, pageSize := parsePagination(c)

	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	data, err := h.videoService.GetFeed(page, pageSize, category)
	if err != nil {
		logger.Error("Get video feed failed", zap.Error(err))
		response.InternalError(c, "获取视频流失败")
		return
	}

	response.OK(c, "获取视频流成功", data)
}

// GetDetail GET /api/v1/videos/:id
func (h *VideoHandler) GetDetail(c *gin.Context) {
	videoID := c.Param("id")
	if videoID == "" {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	info, err := h.videoService.GetDetail(videoID)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "获取视频详情成功", info)
}

// GetMyVideos GET /api/v1/videos/my/list
func (h *VideoHandler) GetMyVideos(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	data, err := h.videoService.GetMyVideos(currentUserID, page, pageSize, category)
	if err != nil {
		logger.Error("Get my videos failed", zap.Error(err))
		response.InternalError(c, "获取我的视频列表失败")
		return
	}

	response.OK(c, "获取我的视频列表成功", data)
}

// UpdateVideo PUT /api/v1/videos/:id
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	videoID := c.Param("id")

	var req dto.VideoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.Update(videoID, currentUserID, &req)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "更新视频成功", info)
}

// DeleteVideo DELETE /api/v1/videos/:id
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	videoID := c.Param("id")

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.videoService.Delete(c.Request.Context(), videoID, currentUserID); err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "删除视频成功", nil)
}

// handleVideoError 区分发布各阶段的失败：参数问题给 400，
// 文件上传失败给 502（对象存储是上游依赖），元数据写入失败给 500
func handleVideoError(c *gin.Context, err error) {
	var pubErr *service.PublishError
	if errors.As(err, &pubErr) {
		switch pubErr.Kind {
		case service.KindValidation:
			response.BadRequest(c, pubErr.Message)
		case service.KindUpload:
			logger.Error("Video upload failed", zap.Error(err))
			response.Fail(c, http.StatusBadGateway, "upload_failed", pubErr.Message)
		case service.KindPersistence:
			logger.Error("Video persistence failed", zap.Error(err))
			response.Fail(c, http.StatusInternalServerError, "persistence_failed", pubErr.Message)
		default:
			logger.Error("Video publish failed", zap.Error(err))
			response.InternalError(c, "操作失败，请稍后重试")
		}
		return
	}

	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrVideoNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Video operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
