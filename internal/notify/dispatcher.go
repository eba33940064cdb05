// Package notify 定义通知投递的接缝。
// 进度引擎只产出「通知事实」，投递方式（WebSocket、邮件等）由
// 进程生命周期持有的 Dispatcher 实现决定，引擎不持有任何连接。
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Event 一条待投递的通知事实
type Event struct {
	UserID       string `json:"user_id"`
	Type         string `json:"type"`
	Message      string `json:"message"`
	AssignmentID string `json:"assignment_id,omitempty"`
}

// Dispatcher 按用户身份投递通知
// 实现必须可并发调用；投递失败不得影响调用方的业务事务
type Dispatcher interface {
	Push(ctx context.Context, event Event) error
}

// LogDispatcher 仅记录日志的默认实现
// 尚未接入实时推送通道时作为兜底
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher 创建 LogDispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Push 记录通知内容
func (d *LogDispatcher) Push(_ context.Context, event Event) error {
	d.logger.Info("通知事实",
		zap.String("user_id", event.UserID),
		zap.String("type", event.Type),
		zap.String("message", event.Message),
	)
	return nil
}
