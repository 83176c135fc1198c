package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AuditLog records a process lifecycle event such as start or shutdown.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type zapAuditLogger struct {
	logger *zap.Logger
}

func NewAuditLogger(logger *zap.Logger) AuditLogger {
	if logger == nil {
		logger = zap.L()
	}
	return &zapAuditLogger{logger: logger.Named("audit")}
}

func (l *zapAuditLogger) Log(ctx context.Context, entry AuditLog) {
	l.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
