package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateVideoID 生成视频标识：video_<毫秒时间戳>_<8位随机hex>
// 在任何 I/O 之前生成，不回查数据库（时间分量 + 随机分量，
// 碰撞概率可忽略，唯一性最终由主键约束兜底）。
func GenerateVideoID() string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("video_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
