package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"dorphin/internal/api/dto"
	"dorphin/internal/config"
	"dorphin/internal/model"
	"dorphin/pkg/logger"

	"gorm.io/gorm"
)

func init() {
	_ = logger.Init("error", "console", "stdout", "")
}

// opLog 记录各个依赖被调用的顺序，用于验证流水线的执行次序
type opLog struct {
	ops []string
}

func (l *opLog) record(op string) {
	l.ops = append(l.ops, op)
}

// fakeBlobStore 可注入失败的对象存储替身
type fakeBlobStore struct {
	log *opLog

	failBuckets map[string]error // 按桶注入 Store 失败

	storedKeys  []string // bucket/key
	removedKeys []string
}

func (f *fakeBlobStore) Store(_ context.Context, bucket, key string, reader io.Reader, _ int64, _ string) (string, error) {
	f.log.record("store:" + bucket)
	if err, ok := f.failBuckets[bucket]; ok {
		return "", err
	}
	// 消费内容，模拟真实上传
	_, _ = io.Copy(io.Discard, reader)
	f.storedKeys = append(f.storedKeys, bucket+"/"+key)
	return key, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, bucket, key string) error {
	f.log.record("remove:" + bucket)
	f.removedKeys = append(f.removedKeys, bucket+"/"+key)
	return nil
}

// fakeVideoStore 内存元数据仓库替身
type fakeVideoStore struct {
	log *opLog

	createErr error
	videos    map[string]*model.Video
	created   []*model.Video
}

func newFakeVideoStore(log *opLog) *fakeVideoStore {
	return &fakeVideoStore{log: log, videos: make(map[string]*model.Video)}
}

func (f *fakeVideoStore) Create(video *model.Video) error {
	f.log.record("create")
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.videos[video.ID]; exists {
		return errors.New("duplicate key")
	}
	f.videos[video.ID] = video
	f.created = append(f.created, video)
	return nil
}

func (f *fakeVideoStore) GetByID(id string) (*model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeVideoStore) GetByIDWithOwner(id string) (*model.Video, error) {
	return f.GetByID(id)
}

func (f *fakeVideoStore) GetByIDAndOwner(videoID string, ownerID int64) (*model.Video, error) {
	v, ok := f.videos[videoID]
	if !ok || v.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeVideoStore) Update(id string, updates map[string]interface{}) (*model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if title, ok := updates["title"].(string); ok {
		v.Title = title
	}
	if desc, ok := updates["description"].(string); ok {
		v.Description = desc
	}
	return v, nil
}

func (f *fakeVideoStore) Delete(id string) error {
	if _, ok := f.videos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeVideoStore) ListVideos(_, _ int, _ *int64, _ *string, _ *string, _ bool) ([]model.Video, int64, error) {
	return nil, 0, nil
}

func (f *fakeVideoStore) GetByIDsWithOwner(ids []string) ([]model.Video, error) {
	var out []model.Video
	for _, id := range ids {
		if v, ok := f.videos[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVideoStore) IncrementViewCount(string) error { return nil }

// fakeEventSink 记录发出的事件
type fakeEventSink struct {
	published []string
	deleted   []string
}

func (f *fakeEventSink) VideoPublished(_ context.Context, video *model.Video) error {
	f.published = append(f.published, video.ID)
	return nil
}

func (f *fakeEventSink) VideoDeleted(_ context.Context, videoID string) error {
	f.deleted = append(f.deleted, videoID)
	return nil
}

func testMinIOConfig() *config.MinIOConfig {
	return &config.MinIOConfig{
		Endpoint: "127.0.0.1:9000",
		VideoBucket: config.BucketConfig{
			Name:      "videos",
			MaxSizeMB: 500,
			Formats:   []string{"mp4", "mov", "avi", "mkv", "webm"},
		},
		ThumbnailBucket: config.BucketConfig{
			Name:      "thumbnails",
			MaxSizeMB: 10,
			Formats:   []string{"jpeg", "jpg", "png", "webp", "gif"},
		},
	}
}

func newTestVideoService() (*VideoService, *fakeBlobStore, *fakeVideoStore, *fakeEventSink, *opLog) {
	log := &opLog{}
	store := &fakeBlobStore{log: log, failBuckets: make(map[string]error)}
	repo := newFakeVideoStore(log)
	sink := &fakeEventSink{}
	svc := NewVideoService(repo, store, sink, testMinIOConfig())
	return svc, store, repo, sink, log
}

func validPublishRequest() *PublishRequest {
	return &PublishRequest{
		Title:    "测试视频",
		Category: model.CategoryLong,
		Duration: 60,
		Video: Blob{
			Reader:   strings.NewReader("fake video bytes"),
			Size:     16,
			Filename: "clip.mp4",
		},
		Thumbnail: &Blob{
			Reader:   strings.NewReader("fake image bytes"),
			Size:     16,
			Filename: "cover.jpg",
		},
	}
}

func TestPublish_Success(t *testing.T) {
	svc, store, repo, sink, log := newTestVideoService()

	info, err := svc.Publish(context.Background(), 7, validPublishRequest())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if !strings.HasPrefix(info.ID, "video_") {
		t.Fatalf("Unexpected video id: %s", info.ID)
	}
	wantPath := fmt.Sprintf("7/%s.mp4", info.ID)
	if info.VideoPath != wantPath {
		t.Fatalf("Expected video path %s, got %s", wantPath, info.VideoPath)
	}
	wantThumb := fmt.Sprintf("7/%s_thumb.jpg", info.ID)
	if info.ThumbnailPath != wantThumb {
		t.Fatalf("Expected thumbnail path %s, got %s", wantThumb, info.ThumbnailPath)
	}
	if info.PlayURL != "http://127.0.0.1:9000/videos/"+wantPath {
		t.Fatalf("Unexpected play URL: %s", info.PlayURL)
	}

	// 主文件先上传，封面其次，元数据最后入库
	wantOps := []string{"store:videos", "store:thumbnails", "create"}
	if len(log.ops) != len(wantOps) {
		t.Fatalf("Expected ops %v, got %v", wantOps, log.ops)
	}
	for i, op := range wantOps {
		if log.ops[i] != op {
			t.Fatalf("Expected ops %v, got %v", wantOps, log.ops)
		}
	}

	if len(repo.created) != 1 {
		t.Fatalf("Expected 1 created record, got %d", len(repo.created))
	}
	if len(store.removedKeys) != 0 {
		t.Fatalf("Expected no blob removals, got %v", store.removedKeys)
	}
	if len(sink.published) != 1 || sink.published[0] != info.ID {
		t.Fatalf("Expected published event for %s, got %v", info.ID, sink.published)
	}
}

func TestPublish_ValidationFailure_NoIO(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PublishRequest)
	}{
		{"空标题", func(r *PublishRequest) { r.Title = "   " }},
		{"非法分类", func(r *PublishRequest) { r.Category = "medium" }},
		{"负时长", func(r *PublishRequest) { r.Duration = -1 }},
		{"空文件", func(r *PublishRequest) { r.Video.Size = 0 }},
		{"超大文件", func(r *PublishRequest) { r.Video.Size = 501 * 1024 * 1024 }},
		{"非法格式", func(r *PublishRequest) { r.Video.Filename = "clip.exe" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, repo, _, log := newTestVideoService()

			req := validPublishRequest()
			tc.mutate(req)

			_, err := svc.Publish(context.Background(), 7, req)
			if err == nil {
				t.Fatal("Expected validation error")
			}

			var pubErr *PublishError
			if !errors.As(err, &pubErr) || pubErr.Kind != KindValidation {
				t.Fatalf("Expected validation error, got %v", err)
			}

			// 校验失败不应产生任何 I/O
			if len(log.ops) != 0 {
				t.Fatalf("Expected no I/O on validation failure, got ops %v", log.ops)
			}
			if len(store.storedKeys) != 0 || len(repo.created) != 0 {
				t.Fatal("Expected nothing stored or created on validation failure")
			}
		})
	}
}

func TestPublish_PrimaryUploadFailure(t *testing.T) {
	svc, store, repo, sink, log := newTestVideoService()

	cause := errors.New("connection refused")
	store.failBuckets["videos"] = cause

	_, err := svc.Publish(context.Background(), 7, validPublishRequest())
	if err == nil {
		t.Fatal("Expected upload error")
	}

	var pubErr *PublishError
	if !errors.As(err, &pubErr) || pubErr.Kind != KindUpload {
		t.Fatalf("Expected upload error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("Expected underlying cause to be preserved")
	}

	// 主文件上传失败时不得写入任何元数据
	if len(repo.created) != 0 {
		t.Fatalf("Expected no metadata on upload failure, got %d records", len(repo.created))
	}
	for _, op := range log.ops {
		if op == "create" || op == "store:thumbnails" {
			t.Fatalf("Unexpected op %s after primary upload failure", op)
		}
	}
	if len(sink.published) != 0 {
		t.Fatal("Expected no published event on upload failure")
	}
}

func TestPublish_ThumbnailUploadFailure_Degrades(t *testing.T) {
	svc, store, repo, _, _ := newTestVideoService()

	store.failBuckets["thumbnails"] = errors.New("bucket unavailable")

	info, err := svc.Publish(context.Background(), 7, validPublishRequest())
	if err != nil {
		t.Fatalf("Expected publish to succeed without thumbnail, got %v", err)
	}

	if info.ThumbnailPath != "" {
		t.Fatalf("Expected empty thumbnail path, got %s", info.ThumbnailPath)
	}
	if info.ThumbnailURL != "" {
		t.Fatalf("Expected empty thumbnail URL, got %s", info.ThumbnailURL)
	}
	if len(repo.created) != 1 || repo.created[0].ThumbnailPath != "" {
		t.Fatal("Expected record persisted with empty thumbnail path")
	}
}

func TestPublish_ThumbnailRejectedByPolicy(t *testing.T) {
	svc, store, _, _, log := newTestVideoService()

	req := validPublishRequest()
	req.Thumbnail.Filename = "cover.bmp"

	info, err := svc.Publish(context.Background(), 7, req)
	if err != nil {
		t.Fatalf("Expected publish to succeed, got %v", err)
	}
	if info.ThumbnailPath != "" {
		t.Fatalf("Expected empty thumbnail path, got %s", info.ThumbnailPath)
	}

	// 策略拒绝的封面不应触发上传
	for _, op := range log.ops {
		if op == "store:thumbnails" {
			t.Fatal("Expected no thumbnail upload for rejected format")
		}
	}
	if len(store.storedKeys) != 1 {
		t.Fatalf("Expected only primary upload, got %v", store.storedKeys)
	}
}

func TestPublish_PersistenceFailure_NoCompensatingDelete(t *testing.T) {
	svc, store, repo, sink, _ := newTestVideoService()

	repo.createErr = errors.New("unique constraint violation")

	_, err := svc.Publish(context.Background(), 7, validPublishRequest())
	if err == nil {
		t.Fatal("Expected persistence error")
	}

	var pubErr *PublishError
	if !errors.As(err, &pubErr) || pubErr.Kind != KindPersistence {
		t.Fatalf("Expected persistence error, got %v", err)
	}

	// 已上传的文件必须原样留给回收任务，不做补偿删除
	if len(store.removedKeys) != 0 {
		t.Fatalf("Expected no compensating delete, got removals %v", store.removedKeys)
	}
	if len(store.storedKeys) != 2 {
		t.Fatalf("Expected primary and thumbnail uploaded, got %v", store.storedKeys)
	}
	if len(sink.published) != 0 {
		t.Fatal("Expected no published event on persistence failure")
	}
}

func TestPublish_WithoutThumbnail(t *testing.T) {
	svc, store, repo, _, _ := newTestVideoService()

	req := &PublishRequest{
		Title:         "Hello",
		Category:      model.CategoryShort,
		ShortCategory: "日常",
		Video: Blob{
			Reader:   strings.NewReader(strings.Repeat("x", 1024)),
			Size:     5 * 1024 * 1024,
			Filename: "hello.mp4",
		},
	}

	info, err := svc.Publish(context.Background(), 7, req)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if info.ThumbnailPath != "" || info.ThumbnailURL != "" {
		t.Fatal("Expected no thumbnail for request without one")
	}
	if len(store.storedKeys) != 1 {
		t.Fatalf("Expected single upload, got %v", store.storedKeys)
	}

	rec := repo.created[0]
	if rec.Category != model.CategoryShort || rec.ShortCategory != "日常" {
		t.Fatalf("Unexpected category fields: %s/%s", rec.Category, rec.ShortCategory)
	}
	if rec.ViewCount != 0 || rec.LikeCount != 0 || rec.CommentCount != 0 {
		t.Fatal("Expected zero counters on a fresh record")
	}
}

func TestPublish_ShortCategoryClearedForLongVideos(t *testing.T) {
	svc, _, repo, _, _ := newTestVideoService()

	req := validPublishRequest()
	req.Category = model.CategoryLong
	req.ShortCategory = "搞笑"

	info, err := svc.Publish(context.Background(), 7, req)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if info.ShortCategory != "" {
		t.Fatalf("Expected short category cleared for long video, got %s", info.ShortCategory)
	}
	if repo.created[0].ShortCategory != "" {
		t.Fatal("Expected short category cleared in persisted record")
	}
}

func TestDelete_RemovesBlobsBestEffort(t *testing.T) {
	svc, store, repo, sink, _ := newTestVideoService()

	repo.videos["video_1_abcd1234"] = &model.Video{
		ID:            "video_1_abcd1234",
		OwnerID:       7,
		VideoPath:     "7/video_1_abcd1234.mp4",
		ThumbnailPath: "7/video_1_abcd1234_thumb.jpg",
	}

	if err := svc.Delete(context.Background(), "video_1_abcd1234", 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(store.removedKeys) != 2 {
		t.Fatalf("Expected both blobs removed, got %v", store.removedKeys)
	}
	if len(sink.deleted) != 1 || sink.deleted[0] != "video_1_abcd1234" {
		t.Fatalf("Expected deleted event, got %v", sink.deleted)
	}
}

func TestDelete_RejectsNonOwner(t *testing.T) {
	svc, store, repo, _, _ := newTestVideoService()

	repo.videos["video_1_abcd1234"] = &model.Video{
		ID:        "video_1_abcd1234",
		OwnerID:   7,
		VideoPath: "7/video_1_abcd1234.mp4",
	}

	err := svc.Delete(context.Background(), "video_1_abcd1234", 8)
	if !errors.Is(err, ErrVideoNoPermission) {
		t.Fatalf("Expected permission error, got %v", err)
	}
	if len(store.removedKeys) != 0 {
		t.Fatal("Expected no blob removal for rejected delete")
	}
}

func TestCommitMetadata_RequiresVideoPath(t *testing.T) {
	svc, _, repo, _, _ := newTestVideoService()

	_, err := svc.CommitMetadata(context.Background(), 7, &dto.VideoMetadataRequest{
		Title:    "测试视频",
		Category: model.CategoryLong,
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var pubErr *PublishError
	if !errors.As(err, &pubErr) || pubErr.Kind != KindValidation {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("Expected nothing persisted")
	}
}

func TestGetVideosByIDs_PreservesOrder(t *testing.T) {
	svc, _, repo, _, _ := newTestVideoService()

	for _, id := range []string{"video_1_aaaaaaaa", "video_2_bbbbbbbb", "video_3_cccccccc"} {
		repo.videos[id] = &model.Video{ID: id, OwnerID: 7}
	}

	ids := []string{"video_3_cccccccc", "video_1_aaaaaaaa", "video_9_missing0", "video_2_bbbbbbbb"}
	data, err := svc.GetVideosByIDs(ids, 3, 1, 10)
	if err != nil {
		t.Fatalf("GetVideosByIDs failed: %v", err)
	}

	want := []string{"video_3_cccccccc", "video_1_aaaaaaaa", "video_2_bbbbbbbb"}
	if len(data.Videos) != len(want) {
		t.Fatalf("Expected %d videos, got %d", len(want), len(data.Videos))
	}
	for i, id := range want {
		if data.Videos[i].ID != id {
			t.Fatalf("Expected video %s at position %d, got %s", id, i, data.Videos[i].ID)
		}
	}
}

var videoIDPattern = regexp.MustCompile(`^video_(\d+)_[0-9a-f]{8}$`)

func TestGenerateVideoID_Format(t *testing.T) {
	before := time.Now().UnixMilli()
	id := GenerateVideoID()
	after := time.Now().UnixMilli()

	m := videoIDPattern.FindStringSubmatch(id)
	if m == nil {
		t.Fatalf("Unexpected id format: %s", id)
	}

	var millis int64
	if _, err := fmt.Sscanf(m[1], "%d", &millis); err != nil {
		t.Fatalf("Failed to parse timestamp from %s: %v", id, err)
	}
	if millis < before || millis > after {
		t.Fatalf("Timestamp %d outside range [%d, %d]", millis, before, after)
	}
}

func TestGenerateVideoID_Uniqueness(t *testing.T) {
	const n = 100000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := GenerateVideoID()
		if _, dup := seen[id]; dup {
			t.Fatalf("Duplicate id generated after %d iterations: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}
