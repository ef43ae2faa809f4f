// Package attr provides slog attribute helpers used across the service.
package attr

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

// Error renders an error under the conventional "error" key.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// RoundID renders a round identifier.
func RoundID(key string, id sharedtypes.RoundID) slog.Attr {
	return slog.String(key, id.String())
}

// PlayerID renders a player identifier.
func PlayerID(key string, id sharedtypes.PlayerID) slog.Attr {
	return slog.String(key, id.String())
}

// BetID renders a bet identifier.
func BetID(key string, id sharedtypes.BetID) slog.Attr {
	return slog.String(key, id.String())
}

// UserID renders a user identifier.
func UserID(key string, id sharedtypes.UserID) slog.Attr {
	return slog.Int64(key, int64(id))
}

// ExtractCorrelationID pulls the request correlation ID out of the context.
// The HTTP layer seeds it via chi's request-ID middleware.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", middleware.GetReqID(ctx))
}
