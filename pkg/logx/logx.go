// Package logx 提供全局 zerolog 日志器。
//
// 库代码只在 debug 级别输出构建过程；用户可见的 warn/error 由命令行层输出。
//
//	logx.Init(logx.Config{Level: "debug", Format: "console"})
//	logx.Info().Int64("user", uid).Msg("searching for recommendations")
package logx

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config 是日志配置。
type Config struct {
	// Level: trace / debug / info / warn / error / disabled，默认 info
	Level string `koanf:"level"`

	// Format: json / console，默认 json
	Format string `koanf:"format"`

	// Output 默认 os.Stderr
	Output io.Writer `koanf:"-"`
}

var (
	mu     sync.RWMutex
	logger zerolog.Logger
)

func init() {
	Init(Config{})
}

// Init 配置全局日志器，可重复调用。
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	l := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()

	mu.Lock()
	logger = l
	mu.Unlock()
}

// ParseLevel 将字符串转为 zerolog.Level，无法识别时返回 info。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger 返回当前全局日志器的副本。
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}
