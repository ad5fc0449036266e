package reconcile

import (
	"context"
	"strings"
	"time"

	"dorphin/internal/infra/minio"
	"dorphin/pkg/logger"

	"go.uber.org/zap"
)

// BlobLister 枚举并删除存储桶里的对象
type BlobLister interface {
	List(ctx context.Context, bucket string) ([]minio.StoredObject, error)
	Remove(ctx context.Context, bucket, key string) error
}

// VideoExistenceChecker 判断某个视频 ID 是否有元数据记录
type VideoExistenceChecker interface {
	Exists(id string) (bool, error)
}

// Reconciler 清理发布失败留下的孤儿对象
//
// 发布流程先上传文件再写元数据，写库失败时文件会留在对象存储里。
// 回收任务定期扫描，删除没有对应记录且超过保护期的对象。
// 保护期挡住两类误删：正在进行中的发布，和客户端还打算重试的发布。
type Reconciler struct {
	store   BlobLister
	videos  VideoExistenceChecker
	buckets []string
	grace   time.Duration
}

func New(store BlobLister, videos VideoExistenceChecker, buckets []string, grace time.Duration) *Reconciler {
	return &Reconciler{
		store:   store,
		videos:  videos,
		buckets: buckets,
		grace:   grace,
	}
}

// Sweep 扫描一轮，返回删除的对象数
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	removed := 0
	cutoff := time.Now().Add(-r.grace)

	for _, bucket := range r.buckets {
		objects, err := r.store.List(ctx, bucket)
		if err != nil {
			logger.Error("Failed to list bucket for reconciliation",
				zap.String("bucket", bucket),
				zap.Error(err),
			)
			return removed, err
		}

		for _, obj := range objects {
			if obj.LastModified.After(cutoff) {
				continue
			}

			videoID, ok := videoIDFromKey(obj.Key)
			if !ok {
				// 不是发布流程产生的对象，不碰
				continue
			}

			exists, err := r.videos.Exists(videoID)
			if err != nil {
				logger.Warn("Existence check failed, skipping object",
					zap.String("key", obj.Key),
					zap.Error(err),
				)
				continue
			}
			if exists {
				continue
			}

			if err := r.store.Remove(ctx, bucket, obj.Key); err != nil {
				logger.Warn("Failed to remove orphan object",
					zap.String("bucket", bucket),
					zap.String("key", obj.Key),
					zap.Error(err),
				)
				continue
			}

			removed++
			logger.Info("Removed orphan object",
				zap.String("bucket", bucket),
				zap.String("key", obj.Key),
				zap.String("video_id", videoID),
			)
		}
	}

	return removed, nil
}

// Run 按固定间隔执行 Sweep，直到 ctx 取消
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Reconciler started",
		zap.Strings("buckets", r.buckets),
		zap.Duration("interval", interval),
		zap.Duration("grace", r.grace),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reconciler stopped")
			return
		case <-ticker.C:
			removed, err := r.Sweep(ctx)
			if err != nil {
				logger.Error("Reconcile sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("Reconcile sweep completed", zap.Int("removed", removed))
			}
		}
	}
}

// videoIDFromKey 从对象键里解出视频 ID
// 键格式为 <ownerID>/<videoID>.<ext> 或 <ownerID>/<videoID>_thumb.<ext>。
func videoIDFromKey(key string) (string, bool) {
	slash := strings.LastIndex(key, "/")
	name := key[slash+1:]

	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name = name[:dot]
	}
	name = strings.TrimSuffix(name, "_thumb")

	if !strings.HasPrefix(name, "video_") {
		return "", false
	}
	return name, true
}
