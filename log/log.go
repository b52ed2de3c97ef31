package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000"})
	logger.SetLevel(logrus.InfoLevel)
}

// Options 日志初始化参数
type Options struct {
	Level      string
	File       string // 为空则只输出到 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	JSON       bool
}

// Init 按配置重建全局 logger；文件输出通过 lumberjack 滚动
func Init(opt Options) {
	if lvl, err := logrus.ParseLevel(strings.ToLower(opt.Level)); err == nil {
		logger.SetLevel(lvl)
	}
	if opt.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})
	}
	if opt.File == "" {
		logger.SetOutput(os.Stdout)
		return
	}
	roll := &lumberjack.Logger{
		Filename:   opt.File,
		MaxSize:    opt.MaxSizeMB,
		MaxBackups: opt.MaxBackups,
		MaxAge:     opt.MaxAgeDays,
		Compress:   opt.Compress,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, roll))
}

func Logger() *logrus.Logger { return logger }

func WithField(key string, value interface{}) *logrus.Entry { return logger.WithField(key, value) }

func WithFields(fields logrus.Fields) *logrus.Entry { return logger.WithFields(fields) }

func Debug(args ...interface{}) { logger.Debug(args...) }

func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }

func Info(args ...interface{}) { logger.Info(args...) }

func Infof(format string, args ...interface{}) { logger.Infof(format, args...) }

func Warn(args ...interface{}) { logger.Warn(args...) }

func Warnf(format string, args ...interface{}) { logger.Warnf(format, args...) }

func Error(args ...interface{}) { logger.Error(args...) }

func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }

func Fatal(args ...interface{}) { logger.Fatal(args...) }

func Fatalf(format string, args ...interface{}) { logger.Fatalf(format, args...) }
