package logger

import (
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ctxEntryKey     = "logger"
	RequestIDHeader = "X-Request-ID"
)

type Logger struct {
	*logrus.Entry
}

var (
	std     *Logger
	stdOnce sync.Once
)

func New() *Logger {
	base := logrus.New()

	// Local env = pretty console; others = JSON
	env := os.Getenv("ENVIRONMENT")
	if env == "" || env == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	base.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Entry: logrus.NewEntry(base)}
}

// Default returns the process-wide logger.
func Default() *Logger {
	stdOnce.Do(func() { std = New() })
	return std
}

// WithError standardizes error logging
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}

// Middleware stores a request-scoped entry in the fiber context and logs the
// outcome of every request.
func (l *Logger) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(RequestIDHeader, reqID)

		entry := l.WithFields(logrus.Fields{
			"req_id":     reqID,
			"method":     c.Method(),
			"path":       c.Path(),
			"remote_ip":  c.IP(),
			"user_agent": c.Get(fiber.HeaderUserAgent),
		})
		c.Locals(ctxEntryKey, entry)

		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler write the response before reading the status
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		FromCtx(c).WithFields(logrus.Fields{
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request completed")
		return nil
	}
}

// FromCtx returns the entry stored by Middleware, or the default logger.
func FromCtx(c *fiber.Ctx) *logrus.Entry {
	if e, ok := c.Locals(ctxEntryKey).(*logrus.Entry); ok {
		return e
	}
	return Default().Entry
}

// AddField replaces the request entry with one carrying key=value.
func AddField(c *fiber.Ctx, key string, value interface{}) {
	c.Locals(ctxEntryKey, FromCtx(c).WithField(key, value))
}
