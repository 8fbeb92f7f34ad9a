package utils

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions 日志配置
type LogOptions struct {
	Mode       string // "development" | "production"
	File       string // optional rotated file sink
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger wraps a sugared zap logger and redacts sensitive values.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds the service logger. Console output always; a lumberjack-rotated
// JSON file is added when opts.File is set.
func NewLogger(opts LogOptions) (*Logger, error) {
	var encCfg zapcore.EncoderConfig
	var consoleEnc zapcore.Encoder
	level := zap.NewAtomicLevelAt(zap.DebugLevel)

	switch strings.ToLower(opts.Mode) {
	case "prod", "production":
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		encCfg = zap.NewDevelopmentEncoderConfig()
		consoleEnc = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotator), level))
	}

	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return &Logger{sugar: z.Sugar()}, nil
}

// NewNopLogger discards everything; used by tests and offline commands.
func NewNopLogger() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, sanitizeKVs(keysAndValues)...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, sanitizeKVs(keysAndValues)...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, sanitizeKVs(keysAndValues)...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, sanitizeKVs(keysAndValues)...)
}

func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, sanitizeKVs(keysAndValues)...)
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(sanitizeKVs(keysAndValues)...)}
}

func sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := fmt.Sprint(kv[i])
		out = append(out, key, sanitizeValue(strings.ToLower(key), kv[i+1]))
	}
	return out
}

func sanitizeValue(key string, val interface{}) interface{} {
	switch {
	case strings.Contains(key, "api_key"), strings.Contains(key, "apikey"):
		return SanitizeAPIKey(fmt.Sprint(val))
	case strings.Contains(key, "token"),
		strings.Contains(key, "authorization"),
		strings.Contains(key, "secret"),
		strings.Contains(key, "password"):
		return "[REDACTED]"
	case strings.Contains(key, "email"):
		return SanitizeEmail(fmt.Sprint(val))
	case key == "url" || strings.HasSuffix(key, "_url") || key == "endpoint":
		return SanitizeURL(fmt.Sprint(val))
	}
	return val
}

// SanitizeAPIKey 脱敏 API Key（只显示后4位）
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return "(unset)"
	}
	if len(apiKey) > 8 {
		return "***" + apiKey[len(apiKey)-4:]
	}
	return "***"
}

// SanitizeEmail keeps the first character of the local part and the domain.
func SanitizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// SanitizeURL 脱敏 URL（隐藏查询参数中的敏感信息）
func SanitizeURL(urlStr string) string {
	sensitiveParams := []string{"token", "key", "password", "secret", "api_key"}

	lower := strings.ToLower(urlStr)
	for _, param := range sensitiveParams {
		idx := strings.Index(lower, param+"=")
		if idx < 0 {
			continue
		}
		start := idx + len(param) + 1
		end := strings.IndexAny(urlStr[start:], "&#")
		if end < 0 {
			end = len(urlStr) - start
		}
		urlStr = urlStr[:start] + "***" + urlStr[start+end:]
		lower = strings.ToLower(urlStr)
	}

	return urlStr
}
