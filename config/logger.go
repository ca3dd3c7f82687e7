package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a no-op until InitLogger runs so packages can log from tests.
var Logger = zap.NewNop()

// InitLogger initializes the Zap logger with Lumberjack log rotation inside logDir
func InitLogger(logDir string, level string) {
	if logDir == "" {
		logDir = "logs"
	}
	err := os.MkdirAll(logDir, os.ModePerm)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logs directory: %v", err))
	}

	// Set up log rotation using Lumberjack
	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))), // Logs will be named by date
		MaxSize:    10,                                                                            // Megabytes before rotation
		MaxBackups: 7,                                                                             // Keep the last 7 backups
		MaxAge:     28,                                                                            // Days
		Compress:   true,
	}

	zapLevel := zapcore.InfoLevel
	if err := zapLevel.Set(level); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Human-readable encoder, same as development
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(logFile),
		zapLevel,
	)

	Logger = zap.New(core)
}
