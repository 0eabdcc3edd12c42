package middleware

import (
	"log/slog"
	"time"

	"safehome_backend/internal/logger"
	"safehome_backend/internal/session"
	"safehome_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		log := logger.FromContext(c.Request.Context())
		fields := []any{
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("duration", duration),
			slog.Int("size_bytes", c.Writer.Size()),
		}
		if c.Writer.Status() >= 500 {
			log.Error("HTTP Server Error", fields...)
		} else if c.Writer.Status() >= 400 {
			log.Warn("HTTP Client Error", fields...)
		} else {
			log.Info("HTTP Request", fields...)
		}
	}
}

// SessionMiddleware достает сессию по cookie либо создает новую.
// Сессия кладется в gin-контекст, а её id - в context запроса для логов.
// После хэндлера измененная сессия сохраняется обратно в Redis.
func SessionMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *session.Session
		if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
			if found, err := store.Get(ctx, cookie); err == nil {
				sess = found
			}
		}

		if sess == nil {
			created, err := store.Create(ctx)
			if err != nil {
				// Redis лежит: работаем без сессии, запрос не роняем
				logger.CtxError(ctx, "failed to create session", "error", err.Error())
				c.Next()
				return
			}
			sess = created
			c.SetCookie(session.CookieName, sess.ID, 0, "/", "", false, true)
		}

		c.Set(string(contextkeys.SessionContextKey), sess)
		c.Request = c.Request.WithContext(logger.WithSessionID(ctx, sess.ID))

		c.Next()

		if err := store.Save(c.Request.Context(), sess); err != nil {
			logger.CtxError(c.Request.Context(), "failed to save session", "error", err.Error())
		}
	}
}
