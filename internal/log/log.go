// Package log emits structured JSON log entries enriched with request
// context. Levels: info for normal flow, audit for business-relevant writes,
// warn (Security) for suspicious input, error for failures.
package log

import (
	"os"
	"sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.Mutex
	base *zap.Logger
)

// Init builds the process logger. When logFile is non-empty, entries are
// duplicated there alongside stdout. Safe to call once at startup; packages
// that log before Init fall back to a default production logger.
func Init(service, env, logFile string) error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	if logFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, logFile)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "action"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.InitialFields = map[string]any{"service": service, "env": env}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	base = l
	mu.Unlock()
	return nil
}

func logger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.EncoderConfig.MessageKey = "action"
		l, err := cfg.Build()
		if err != nil {
			l = zap.NewNop()
			os.Stderr.WriteString("log: zap build failed: " + err.Error() + "\n")
		}
		base = l
	}
	return base
}

func ctxFields(c *fiber.Ctx, err error, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, 8)
	if c != nil {
		out = append(out,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			out = append(out, zap.String("req_id", rid))
		}
	}
	if err != nil {
		out = append(out, zap.String("err", err.Error()))
	}
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	logger().Info(action, ctxFields(c, nil, fields)...)
}

// Audit records state-changing business actions (order placed, payment
// confirmed, user deleted).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	logger().Info(action, append(ctxFields(c, nil, fields), zap.String("kind", "audit"))...)
}

// Security records rejected or suspicious input.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	logger().Warn(action, ctxFields(c, nil, fields)...)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	logger().Error(action, ctxFields(c, err, fields)...)
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	_ = logger().Sync()
}
