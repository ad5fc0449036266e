package reconcile

import (
	"context"
	"testing"
	"time"

	"dorphin/internal/infra/minio"
	"dorphin/pkg/logger"
)

func init() {
	_ = logger.Init("error", "console", "stdout", "")
}

type fakeStore struct {
	objects map[string][]minio.StoredObject
	removed []string
}

func (f *fakeStore) List(ctx context.Context, bucket string) ([]minio.StoredObject, error) {
	return f.objects[bucket], nil
}

func (f *fakeStore) Remove(ctx context.Context, bucket, key string) error {
	f.removed = append(f.removed, bucket+"/"+key)
	return nil
}

type fakeChecker struct {
	known map[string]bool
}

func (f *fakeChecker) Exists(id string) (bool, error) {
	return f.known[id], nil
}

func TestSweep_RemovesOrphansPastGrace(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-10 * time.Minute)

	store := &fakeStore{
		objects: map[string][]minio.StoredObject{
			"videos": {
				{Key: "1/video_1700000000000_deadbeef.mp4", LastModified: old},
				{Key: "1/video_1700000000001_cafebabe.mp4", LastModified: old},
				{Key: "2/video_1700000000002_0badf00d.mp4", LastModified: recent},
			},
			"thumbnails": {
				{Key: "1/video_1700000000000_deadbeef_thumb.jpeg", LastModified: old},
			},
		},
	}
	checker := &fakeChecker{known: map[string]bool{
		"video_1700000000001_cafebabe": true,
	}}

	r := New(store, checker, []string{"videos", "thumbnails"}, 24*time.Hour)

	removed, err := r.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}

	// 孤儿主文件和孤儿封面被删，有记录的和保护期内的保留
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	want := map[string]bool{
		"videos/1/video_1700000000000_deadbeef.mp4":           true,
		"thumbnails/1/video_1700000000000_deadbeef_thumb.jpeg": true,
	}
	for _, key := range store.removed {
		if !want[key] {
			t.Errorf("unexpected removal: %s", key)
		}
		delete(want, key)
	}
	for key := range want {
		t.Errorf("expected removal missing: %s", key)
	}
}

func TestSweep_SkipsForeignObjects(t *testing.T) {
	store := &fakeStore{
		objects: map[string][]minio.StoredObject{
			"videos": {
				{Key: "legacy/imported.mp4", LastModified: time.Now().Add(-72 * time.Hour)},
			},
		},
	}
	checker := &fakeChecker{known: map[string]bool{}}

	r := New(store, checker, []string{"videos"}, time.Hour)

	removed, err := r.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if len(store.removed) != 0 {
		t.Fatalf("store.removed = %v, want empty", store.removed)
	}
}

func TestVideoIDFromKey(t *testing.T) {
	tests := []struct {
		key    string
		wantID string
		wantOK bool
	}{
		{"1/video_1700000000000_deadbeef.mp4", "video_1700000000000_deadbeef", true},
		{"1/video_1700000000000_deadbeef_thumb.jpeg", "video_1700000000000_deadbeef", true},
		{"42/video_1700000000000_deadbeef.webm", "video_1700000000000_deadbeef", true},
		{"legacy/imported.mp4", "", false},
		{"video_1700000000000_deadbeef.mp4", "video_1700000000000_deadbeef", true},
	}

	for _, tt := range tests {
		id, ok := videoIDFromKey(tt.key)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("videoIDFromKey(%q) = (%q, %v), want (%q, %v)", tt.key, id, ok, tt.wantID, tt.wantOK)
		}
	}
}
