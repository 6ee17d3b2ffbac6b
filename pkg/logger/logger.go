package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"HealthRocket/config"
)

var (
	// Logger is a no-op until Init runs, so packages can log from tests.
	Logger   = zap.NewNop()
	logClose io.Closer
)

var hlogLevels = map[zapcore.Level]hlog.Level{
	zapcore.DebugLevel: hlog.LevelDebug,
	zapcore.InfoLevel:  hlog.LevelInfo,
	zapcore.WarnLevel:  hlog.LevelWarn,
	zapcore.ErrorLevel: hlog.LevelError,
}

// Init installs one zap core behind both Logger and hertz's hlog, tagged with
// the service name and the binary's component (server, worker, scheduler).
func Init(component string) {
	level := zap.NewAtomicLevelAt(ParseLevel(config.Cfg.LoggerLevel))

	hzLogger := hertzzap.NewLogger(
		hertzzap.WithCoreEnc(newEncoder(useConsoleFormat())),
		hertzzap.WithCoreWs(newWriteSyncer(config.Cfg.LoggerOutputPath)),
		hertzzap.WithCoreLevel(level),
		hertzzap.WithZapOptions(
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
	)
	hlog.SetLogger(hzLogger)
	hlog.SetLevel(toHlogLevel(level.Level()))

	Logger = hzLogger.Logger().With(
		zap.String("service", config.Cfg.ServiceName),
		zap.String("component", component),
	)
	Logger.Info("Logger initialized",
		zap.Stringer("level", level.Level()),
		zap.String("output", config.Cfg.LoggerOutputPath),
		zap.String("environment", config.Cfg.Environment),
	)
}

// Ctx returns Logger with trace_id and span_id fields when ctx carries a
// span context.
func Ctx(ctx context.Context) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return Logger
	}
	return Logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// Sync flushes buffered entries and closes the log file if one was opened.
func Sync() {
	// stdout sync returns EINVAL on some platforms
	_ = Logger.Sync()

	if logClose != nil {
		_ = logClose.Close()
		logClose = nil
	}
}

// ParseLevel accepts zap level names in any case and falls back to info.
func ParseLevel(level string) zapcore.Level {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return parsed
}

func useConsoleFormat() bool {
	return config.Cfg.IsDevelopment() || strings.EqualFold(config.Cfg.LoggerFormat, "text")
}

func newEncoder(console bool) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	if console {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encCfg)
}

func newWriteSyncer(path string) zapcore.WriteSyncer {
	switch strings.ToLower(path) {
	case "", "stdout":
		return zapcore.AddSync(os.Stdout)
	case "stderr":
		return zapcore.AddSync(os.Stderr)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}
	logClose = file
	return zapcore.AddSync(file)
}

func toHlogLevel(level zapcore.Level) hlog.Level {
	if l, ok := hlogLevels[level]; ok {
		return l
	}
	return hlog.LevelInfo
}
