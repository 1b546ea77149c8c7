package logger

import (
	"io"
	"os"

	"student_insight/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 在 InitLogger 之前是 no-op，测试里可以直接用
var Log = zap.NewNop()

// level 所有 core 共用，配置热加载时直接调整
var level = zap.NewAtomicLevelAt(zap.InfoLevel)

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// InitLogger 文件输出为 JSON（lumberjack 滚动），控制台为可读格式；log.file 为空时只写控制台
func InitLogger(cfg *config.Config) {
	Log = New(cfg.Log, cfg.Server.Mode, os.Stdout)
}

// New 按配置构造 logger，console 为 nil 时不输出到控制台
func New(cfg config.LogConfig, mode string, console io.Writer) *zap.Logger {
	SetLevel(cfg.Level, mode)

	var cores []zapcore.Core
	if cfg.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), fileWriter, level))
	}
	if console != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(console), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// SetLevel log.level 不合法或为空时按运行模式取 debug / info
func SetLevel(name, mode string) {
	l := zap.InfoLevel
	if mode == "debug" {
		l = zap.DebugLevel
	}
	if name != "" {
		if parsed, err := zapcore.ParseLevel(name); err == nil {
			l = parsed
		}
	}
	level.SetLevel(l)
}

func Level() zapcore.Level {
	return level.Level()
}

func Sync() {
	_ = Log.Sync()
}
