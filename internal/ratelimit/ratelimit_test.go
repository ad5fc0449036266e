package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis 启动内存 Redis 供测试使用
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
		DB:   0,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to connect to test Redis: %v", err)
	}

	cleanup := func() {
		redisClient.Close()
		mr.Close()
	}

	return redisClient, cleanup
}

func TestTokenBucket_Allow(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 5, 5)

	ctx := context.Background()
	userID := "42"
	action := "upload"

	// 桶内 5 个令牌应全部可用
	for i := 0; i < 5; i++ {
		allowed, err := bucket.Allow(ctx, userID, action)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}

	// 第 6 次应被拒绝
	allowed, err := bucket.Allow(ctx, userID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("Expected request to be denied after limit reached")
	}

	remaining, err := bucket.GetRemaining(ctx, userID, action)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("Expected 0 remaining tokens, got %d", remaining)
	}
}

func TestTokenBucket_IsolatedPerUser(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 1, 1)
	ctx := context.Background()

	allowed, err := bucket.Allow(ctx, "1", "upload")
	if err != nil || !allowed {
		t.Fatalf("Expected first user to be allowed, got allowed=%v err=%v", allowed, err)
	}

	// 不同用户互不影响
	allowed, err = bucket.Allow(ctx, "2", "upload")
	if err != nil || !allowed {
		t.Fatalf("Expected second user to be allowed, got allowed=%v err=%v", allowed, err)
	}

	allowed, err = bucket.Allow(ctx, "1", "upload")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("Expected first user to be denied after consuming its bucket")
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	redisClient, cleanup := setupTestRedis(t)
	defer cleanup()

	bucket := NewTokenBucket(redisClient, 1, 1)
	ctx := context.Background()

	if allowed, _ := bucket.Allow(ctx, "1", "upload"); !allowed {
		t.Fatal("Expected first request to be allowed")
	}
	if allowed, _ := bucket.Allow(ctx, "1", "upload"); allowed {
		t.Fatal("Expected second request to be denied")
	}

	if err := bucket.Reset(ctx, "1", "upload"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if allowed, _ := bucket.Allow(ctx, "1", "upload"); !allowed {
		t.Fatal("Expected request to be allowed after reset")
	}
}
