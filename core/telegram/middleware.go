package telegram

import (
	"context"
	"runtime/debug"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"mafiabot/core/logger"
)

// Recover catches panics in handlers and prevents the bot from crashing.
func Recover(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// LogUpdates emits one debug line per inbound update.
func LogUpdates(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		attrs := []slog.Attr{
			slog.Int("update_id", c.Update().ID),
		}
		if user := c.Sender(); user != nil {
			attrs = append(attrs, slog.Int64("user_id", user.ID))
			if user.Username != "" {
				attrs = append(attrs, slog.String("username", user.Username))
			}
		}
		if text := c.Text(); text != "" {
			attrs = append(attrs, slog.String("payload", truncate(text, 256)))
		}
		logger.Debug(context.Background(), "tg", "update.received", attrs...)
		return next(c)
	}
}

// Typing sends the typing chat action before each handled update, mirroring
// the walkthrough's behaviour of signalling activity ahead of every reply.
func Typing(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if err := c.Notify(tele.Typing); err != nil {
			logger.TG.Warn("typing action failed",
				slog.String("event", "tg.typing"),
				slog.String("err", err.Error()),
			)
		}
		return next(c)
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
