package service

import "fmt"

// ErrorKind 发布流水线的错误分类
// HTTP 层据此映射状态码：参数错误 4xx，存储/数据库故障 5xx。
type ErrorKind string

const (
	// KindValidation 参数校验失败，发生在任何 I/O 之前
	KindValidation ErrorKind = "validation"
	// KindUpload 主视频文件上传失败，未写入任何元数据
	KindUpload ErrorKind = "upload"
	// KindPersistence 元数据写入失败，已上传的文件成为孤儿对象，
	// 由后台回收任务清理，不在请求路径上做补偿删除
	KindPersistence ErrorKind = "persistence"
)

// PublishError 发布操作的结构化错误（分类 + 可读信息）
type PublishError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func newValidationError(message string) *PublishError {
	return &PublishError{Kind: KindValidation, Message: message}
}

func newUploadError(err error) *PublishError {
	return &PublishError{Kind: KindUpload, Message: "视频文件上传失败", Err: err}
}

func newPersistenceError(err error) *PublishError {
	return &PublishError{Kind: KindPersistence, Message: "视频元数据写入失败", Err: err}
}
