// Package jsonlog writes one JSON object per log entry. Entries below the
// configured minimum level are dropped.
package jsonlog

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	LevelInfo Level = iota
	LevelError
	LevelFatal
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return ""
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

type Logger struct {
	zl *zap.Logger
}

func New(out io.Writer, minLevel Level) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "message"
	encoderConfig.StacktraceKey = "trace"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	enabled := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return minLevel < LevelOff && l >= minLevel.zapLevel()
	})

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(out), enabled)

	return &Logger{
		zl: zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)),
	}
}

func (l *Logger) PrintInfo(message string, properties map[string]string) {
	l.zl.Info(message, fields(properties)...)
}

func (l *Logger) PrintError(err error, properties map[string]string) {
	l.zl.Error(err.Error(), fields(properties)...)
}

// PrintFatal logs the error and terminates the application.
func (l *Logger) PrintFatal(err error, properties map[string]string) {
	l.zl.Error(err.Error(), fields(properties)...)
	_ = l.zl.Sync()
	os.Exit(1)
}

// Write lets the Logger serve as the error log of an http.Server.
func (l *Logger) Write(message []byte) (n int, err error) {
	l.zl.Error(strings.TrimSpace(string(message)))
	return len(message), nil
}

func fields(properties map[string]string) []zap.Field {
	if len(properties) == 0 {
		return nil
	}
	return []zap.Field{zap.Any("properties", properties)}
}
