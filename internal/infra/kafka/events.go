package kafka

import (
	"context"
	"time"

	"dorphin/internal/config"
	"dorphin/internal/model"
)

// VideoEventSink 把视频生命周期事件发到 Kafka
type VideoEventSink struct {
	topic string
}

func NewVideoEventSink(cfg *config.KafkaConfig) *VideoEventSink {
	topic := cfg.Topics["video_events"]
	if topic == "" {
		topic = "video_events"
	}
	return &VideoEventSink{topic: topic}
}

func (s *VideoEventSink) VideoPublished(ctx context.Context, video *model.Video) error {
	ownerName := ""
	if video.Owner.ID != 0 {
		ownerName = video.Owner.UserName
	}
	return SendVideoEvent(ctx, s.topic, &VideoEvent{
		Event:     EventVideoPublished,
		VideoID:   video.ID,
		OwnerID:   video.OwnerID,
		OwnerName: ownerName,
		Timestamp: time.Now().Unix(),
	})
}

func (s *VideoEventSink) VideoDeleted(ctx context.Context, videoID string) error {
	return SendVideoEvent(ctx, s.topic, &VideoEvent{
		Event:     EventVideoDeleted,
		VideoID:   videoID,
		Timestamp: time.Now().Unix(),
	})
}

func (s *VideoEventSink) Topic() string {
	return s.topic
}
