package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"dorphin/internal/api/dto"
	"dorphin/internal/config"
	"dorphin/internal/model"
	"dorphin/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoNotFound     = errors.New("视频不存在")
	ErrVideoNoPermission = errors.New("没有权限操作该视频")
	ErrNoFieldsToUpdate  = errors.New("没有需要更新的字段")
)

// BlobStore 对象存储契约
// 每次调用相互独立，不同 key 之间没有顺序保证。
type BlobStore interface {
	Store(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, bucket, key string) error
}

// VideoStore 视频元数据仓库契约
// Create 在 id 已存在时失败（唯一性由存储层保证，不在业务层校验）。
type VideoStore interface {
	Create(video *model.Video) error
	GetByID(id string) (*model.Video, error)
	GetByIDWithOwner(id string) (*model.Video, error)
	GetByIDAndOwner(videoID string, ownerID int64) (*model.Video, error)
	Update(id string, updates map[string]interface{}) (*model.Video, error)
	Delete(id string) error
	ListVideos(skip, limit int, ownerID *int64, category *string, search *string, withOwner bool) ([]model.Video, int64, error)
	GetByIDsWithOwner(ids []string) ([]model.Video, error)
	IncrementViewCount(id string) error
}

// EventSink 视频生命周期事件出口（Kafka），失败不影响主流程
type EventSink interface {
	VideoPublished(ctx context.Context, video *model.Video) error
	VideoDeleted(ctx context.Context, videoID string) error
}

// Blob 待上传的文件（内容 + 大小 + 客户端文件名）
type Blob struct {
	Reader   io.Reader
	Size     int64
	Filename string
}

// PublishRequest 发布视频的完整输入
type PublishRequest struct {
	Title         string
	Description   string
	Category      string
	ShortCategory string
	Duration      int
	Video         Blob
	Thumbnail     *Blob
}

type VideoService struct {
	videoRepo VideoStore
	store     BlobStore
	events    EventSink

	videoBucket config.BucketConfig
	thumbBucket config.BucketConfig
	endpoint    string
	useSSL      bool
	publicBase  string
}

// NewVideoService 创建视频服务
// events 可为 nil（如 worker 进程不需要发事件）。
func NewVideoService(videoRepo VideoStore, store BlobStore, events EventSink, minioCfg *config.MinIOConfig) *VideoService {
	return &VideoService{
		videoRepo:   videoRepo,
		store:       store,
		events:      events,
		videoBucket: minioCfg.VideoBucket,
		thumbBucket: minioCfg.ThumbnailBucket,
		endpoint:    minioCfg.Endpoint,
		useSSL:      minioCfg.UseSSL,
		publicBase:  minioCfg.PublicBaseURL,
	}
}

// Publish 发布视频：先传主文件，再传封面（可失败），最后写元数据
//
// 顺序保证：元数据入库时主文件必定已经存在于对象存储，
// 读者不可能看到指向不存在文件的记录。反过来的顺序（先写库再上传）
// 需要补偿删除，且在窗口期会暴露坏链接。
//
// 元数据写入失败时不删除已上传的文件：客户端可能针对同一 id 重试
// 写库，孤儿对象交给后台回收任务按保护期清理。
func (s *VideoService) Publish(ctx context.Context, ownerID int64, req *PublishRequest) (*dto.VideoInfo, error) {
	if err := s.validatePublish(req); err != nil {
		return nil, err
	}

	id := GenerateVideoID()
	ext := fileExt(req.Video.Filename)
	key := objectKey(ownerID, id, ext)

	if _, err := s.store.Store(ctx, s.videoBucket.Name, key, req.Video.Reader, req.Video.Size, "video/"+ext); err != nil {
		logger.Error("Primary video upload failed",
			zap.String("video_id", id),
			zap.Int64("owner_id", ownerID),
			zap.Error(err),
		)
		return nil, newUploadError(err)
	}

	// 封面失败不阻断发布，主视频才是有价值的内容
	thumbnailPath := ""
	if req.Thumbnail != nil {
		thumbnailPath = s.uploadThumbnail(ctx, ownerID, id, req.Thumbnail)
	}

	video := &model.Video{
		ID:            id,
		OwnerID:       ownerID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		ShortCategory: req.ShortCategory,
		VideoPath:     key,
		ThumbnailPath: thumbnailPath,
		Duration:      req.Duration,
		FileSize:      req.Video.Size,
		FileFormat:    ext,
	}
	if video.Category != model.CategoryShort {
		video.ShortCategory = ""
	}

	if err := s.videoRepo.Create(video); err != nil {
		logger.Error("Video metadata insert failed, uploaded blobs left for reconciler",
			zap.String("video_id", id),
			zap.String("video_path", key),
			zap.Error(err),
		)
		return nil, newPersistenceError(err)
	}

	s.emitPublished(ctx, video)

	return s.toVideoInfo(video, false), nil
}

// CommitMetadata 直传模式：客户端已自行上传文件，这里只做元数据写入
func (s *VideoService) CommitMetadata(ctx context.Context, ownerID int64, req *dto.VideoMetadataRequest) (*dto.VideoInfo, error) {
	if err := validateMeta(req.Title, req.Category); err != nil {
		return nil, err
	}
	if req.VideoPath == "" {
		return nil, newValidationError("video_path 不能为空")
	}

	video := &model.Video{
		ID:            GenerateVideoID(),
		OwnerID:       ownerID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		ShortCategory: req.ShortCategory,
		VideoPath:     req.VideoPath,
		ThumbnailPath: req.ThumbnailPath,
		Duration:      req.Duration,
		FileSize:      req.FileSize,
		FileFormat:    req.FileFormat,
	}
	if video.Category != model.CategoryShort {
		video.ShortCategory = ""
	}

	if err := s.videoRepo.Create(video); err != nil {
		logger.Error("Video metadata commit failed",
			zap.String("video_id", video.ID),
			zap.Error(err),
		)
		return nil, newPersistenceError(err)
	}

	s.emitPublished(ctx, video)

	return s.toVideoInfo(video, false), nil
}

// GetDetail 获取视频详情（自动增加观看次数）
func (s *VideoService) GetDetail(videoID string) (*dto.VideoInfo, error) {
	video, err := s.videoRepo.GetByIDWithOwner(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	_ = s.videoRepo.IncrementViewCount(videoID)
	video.ViewCount++

	return s.toVideoInfo(video, true), nil
}

// Update 更新视频信息（仅作者本人）
func (s *VideoService) Update(videoID string, currentUserID int64, req *dto.VideoUpdateRequest) (*dto.VideoInfo, error) {
	if _, err := s.videoRepo.GetByIDAndOwner(videoID, currentUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNoPermission
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ShortCategory != nil {
		updates["short_category"] = *req.ShortCategory
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	video, err := s.videoRepo.Update(videoID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	return s.toVideoInfo(video, false), nil
}

// Delete 删除视频：先删记录，再尽力清理存储对象
func (s *VideoService) Delete(ctx context.Context, videoID string, currentUserID int64) error {
	video, err := s.videoRepo.GetByIDAndOwner(videoID, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNoPermission
		}
		return err
	}

	if err := s.videoRepo.Delete(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	// 存储对象删除失败只记日志，残留对象由回收任务清理
	if err := s.store.Remove(ctx, s.videoBucket.Name, video.VideoPath); err != nil {
		logger.Warn("Failed to remove video blob",
			zap.String("video_id", videoID),
			zap.String("key", video.VideoPath),
			zap.Error(err),
		)
	}
	if video.ThumbnailPath != "" {
		if err := s.store.Remove(ctx, s.thumbBucket.Name, video.ThumbnailPath); err != nil {
			logger.Warn("Failed to remove thumbnail blob",
				zap.String("video_id", videoID),
				zap.String("key", video.ThumbnailPath),
				zap.Error(err),
			)
		}
	}

	if s.events != nil {
		if err := s.events.VideoDeleted(ctx, videoID); err != nil {
			logger.Warn("Failed to emit video deleted event",
				zap.String("video_id", videoID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// GetFeed 获取视频流（含作者信息，不需要登录，可按分类筛选）
func (s *VideoService) GetFeed(page, pageSize int, category *string) (*dto.VideoListData, error) {
	skip := (page - 1) * pageSize
	videos, total, err := s.videoRepo.ListVideos(skip, pageSize, nil, category, nil, true)
	if err != nil {
		return nil, err
	}
	return s.buildVideoListData(videos, total, page, pageSize, true), nil
}

// GetMyVideos 获取当前用户的视频列表
func (s *VideoService) GetMyVideos(userID int64, page, pageSize int, category *string) (*dto.VideoListData, error) {
	skip := (page - 1) * pageSize
	videos, total, err := s.videoRepo.ListVideos(skip, pageSize, &userID, category, nil, false)
	if err != nil {
		return nil, err
	}
	return s.buildVideoListData(videos, total, page, pageSize, false), nil
}

// GetVideosByIDs 按 ID 列表取视频，保持传入顺序
func (s *VideoService) GetVideosByIDs(ids []string, total int64, page, pageSize int) (*dto.VideoListData, error) {
	videos, err := s.videoRepo.GetByIDsWithOwner(ids)
	if err != nil {
		return nil, err
	}

	videoMap := make(map[string]*model.Video, len(videos))
	for i := range videos {
		videoMap[videos[i].ID] = &videos[i]
	}

	ordered := make([]model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := videoMap[id]; ok {
			ordered = append(ordered, *v)
		}
	}

	return s.buildVideoListData(ordered, total, page, pageSize, true), nil
}

// validatePublish 发布前的参数校验，失败时不产生任何 I/O
func (s *VideoService) validatePublish(req *PublishRequest) error {
	if err := validateMeta(req.Title, req.Category); err != nil {
		return err
	}
	if req.Duration < 0 {
		return newValidationError("视频时长不能为负数")
	}
	if req.Video.Size <= 0 {
		return newValidationError("视频文件不能为空")
	}
	if req.Video.Size > s.videoBucket.MaxSizeBytes() {
		return newValidationError(fmt.Sprintf("视频文件超过大小上限（%dMB）", s.videoBucket.MaxSizeMB))
	}
	ext := fileExt(req.Video.Filename)
	if !s.videoBucket.AllowsFormat(ext) {
		return newValidationError("不支持的视频格式，支持: " + strings.Join(s.videoBucket.Formats, ", "))
	}
	return nil
}

// uploadThumbnail 上传封面，任何失败都降级为无封面
func (s *VideoService) uploadThumbnail(ctx context.Context, ownerID int64, id string, thumb *Blob) string {
	ext := fileExt(thumb.Filename)
	if !s.thumbBucket.AllowsFormat(ext) || thumb.Size <= 0 || thumb.Size > s.thumbBucket.MaxSizeBytes() {
		logger.Warn("Thumbnail rejected by bucket policy, publishing without it",
			zap.String("video_id", id),
			zap.String("filename", thumb.Filename),
			zap.Int64("size", thumb.Size),
		)
		return ""
	}

	key := thumbnailKey(ownerID, id, ext)
	if _, err := s.store.Store(ctx, s.thumbBucket.Name, key, thumb.Reader, thumb.Size, imageContentType(ext)); err != nil {
		logger.Warn("Thumbnail upload failed, publishing without it",
			zap.String("video_id", id),
			zap.Error(err),
		)
		return ""
	}
	return key
}

func (s *VideoService) emitPublished(ctx context.Context, video *model.Video) {
	if s.events == nil {
		return
	}
	if err := s.events.VideoPublished(ctx, video); err != nil {
		logger.Warn("Failed to emit video published event",
			zap.String("video_id", video.ID),
			zap.Error(err),
		)
	}
}

func validateMeta(title, category string) error {
	if strings.TrimSpace(title) == "" {
		return newValidationError("视频标题不能为空")
	}
	if len(title) > 200 {
		return newValidationError("视频标题过长（最多 200 字符）")
	}
	if category != model.CategoryShort && category != model.CategoryLong {
		return newValidationError("视频分类必须是 short 或 long")
	}
	return nil
}

// objectKey 主文件对象键：<ownerID>/<id>.<ext>
func objectKey(ownerID int64, id, ext string) string {
	return fmt.Sprintf("%d/%s.%s", ownerID, id, ext)
}

// thumbnailKey 封面对象键：<ownerID>/<id>_thumb.<ext>
func thumbnailKey(ownerID int64, id, ext string) string {
	return fmt.Sprintf("%d/%s_thumb.%s", ownerID, id, ext)
}

// fileExt 提取小写扩展名（不带点）
func fileExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}

func imageContentType(ext string) string {
	if ext == "jpg" {
		ext = "jpeg"
	}
	return "image/" + ext
}

// publicURL 拼公开访问地址，key 为空时返回空串
func (s *VideoService) publicURL(bucket, key string) string {
	if key == "" {
		return ""
	}
	if s.publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBase, bucket, key)
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, bucket, key)
}

// toVideoInfo 将 model.Video 转换为 dto.VideoInfo
func (s *VideoService) toVideoInfo(video *model.Video, includeOwner bool) *dto.VideoInfo {
	info := &dto.VideoInfo{
		ID:            video.ID,
		OwnerID:       video.OwnerID,
		Title:         video.Title,
		Description:   video.Description,
		Category:      video.Category,
		ShortCategory: video.ShortCategory,
		VideoPath:     video.VideoPath,
		ThumbnailPath: video.ThumbnailPath,
		PlayURL:       s.publicURL(s.videoBucket.Name, video.VideoPath),
		ThumbnailURL:  s.publicURL(s.thumbBucket.Name, video.ThumbnailPath),
		Duration:      video.Duration,
		FileSize:      video.FileSize,
		FileFormat:    video.FileFormat,
		ViewCount:     video.ViewCount,
		LikeCount:     video.LikeCount,
		CommentCount:  video.CommentCount,
		CreatedAt:     video.CreatedAt,
		UpdatedAt:     video.UpdatedAt,
	}

	if includeOwner && video.Owner.ID != 0 {
		info.Owner = &dto.OwnerBrief{
			ID:       video.Owner.ID,
			Username: video.Owner.UserName,
			Avatar:   video.Owner.Avatar,
		}
	}

	return info
}

func (s *VideoService) buildVideoListData(videos []model.Video, total int64, page, pageSize int, includeOwner bool) *dto.VideoListData {
	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *s.toVideoInfo(&videos[i], includeOwner))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.VideoListData{
		Videos:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
