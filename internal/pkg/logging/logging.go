package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/myblog/core/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the application logger. Console output is always on; when
// cfg.Log.ToFile is set a rotating file sink is added under the log dir.
func New(cfg *config.AppConfig) (*zap.Logger, error) {
	level := parseLevel(cfg.Log.Level)

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if shouldColor() {
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
	}

	if cfg.Log.ToFile {
		dir := cfg.LogDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		sink := &lumberjack.Logger{
			Filename:   filepath.Join(dir, cfg.Log.File),
			MaxSize:    cfg.Log.RotateSizeMB,
			MaxBackups: cfg.Log.RotateKeep,
		}
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(sink), level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.IsDev() {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

func parseLevel(raw string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(raw)))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func shouldColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
