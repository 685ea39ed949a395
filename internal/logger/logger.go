package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Initialize sets up the global logger with the specified level and format
func Initialize(level, format string) {
	InitializeWithWriter(os.Stdout, level, format)
}

// InitializeWithWriter is Initialize with an explicit destination, used by tests
func InitializeWithWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// ParseLevel maps a config level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Get returns the default logger
func Get() *slog.Logger {
	if defaultLogger == nil {
		Initialize("info", "text")
	}
	return defaultLogger
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Get().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}

// WithService returns a logger with service name attached
func WithService(serviceName string) *slog.Logger {
	return Get().With("service", serviceName)
}

// WithOrder returns a logger carrying the order identifiers used across the checkout flow
func WithOrder(orderID, gatewayOrderID string) *slog.Logger {
	l := Get()
	if orderID != "" {
		l = l.With("order_id", orderID)
	}
	if gatewayOrderID != "" {
		l = l.With("gateway_order_id", gatewayOrderID)
	}
	return l
}

// EnterMethod traces entry into a service method at debug level
func EnterMethod(method string, args ...any) {
	Get().Debug("→ "+method, append([]any{"method", method}, args...)...)
}

// ExitMethod traces a successful return from a service method
func ExitMethod(method string, args ...any) {
	Get().Debug("← "+method, append([]any{"method", method}, args...)...)
}

// ExitMethodWithError records a failed return. Client-correctable failures are
// expected traffic and go to warn; everything else is an error.
func ExitMethodWithError(method string, err error, expected bool, args ...any) {
	allArgs := append([]any{"method", method, "error", err}, args...)
	if expected {
		Get().Warn("← "+method+" failed", allArgs...)
		return
	}
	Get().Error("← "+method+" failed", allArgs...)
}

// DatabaseCall logs a database operation before it runs
func DatabaseCall(operation string, args ...any) {
	allArgs := append([]any{"operation", operation}, args...)
	Get().Debug("→ Database call", allArgs...)
}

// DatabaseResult logs the outcome of a database operation
func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	allArgs := append([]any{"operation", operation, "rows_affected", rowsAffected}, args...)
	if err != nil {
		allArgs = append(allArgs, "error", err)
		Get().Error("← Database call failed", allArgs...)
	} else {
		Get().Debug("← Database call succeeded", allArgs...)
	}
}

// GatewayCall logs an outbound payment gateway request
func GatewayCall(operation string, args ...any) {
	allArgs := append([]any{"service", "payment-gateway", "operation", operation}, args...)
	Get().Debug("→ Gateway call", allArgs...)
}

// GatewayResult logs the outcome of a payment gateway request
func GatewayResult(operation string, err error, args ...any) {
	allArgs := append([]any{"service", "payment-gateway", "operation", operation}, args...)
	if err != nil {
		allArgs = append(allArgs, "error", err)
		Get().Error("← Gateway call failed", allArgs...)
	} else {
		Get().Debug("← Gateway call succeeded", allArgs...)
	}
}

// Mask hides all but the last four characters of a credential
func Mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
