package obs

import (
	"context"
	"log/slog"
	"time"

	"places-autocomplete/internal/platform/logger"
)

// Time logs the duration of an operation. Use as
//
//	defer obs.Time(ctx, log, "mapbox.ForwardGeocode")(&err)
func Time(ctx context.Context, log *logger.Logger, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		if log == nil {
			return
		}
		l := log.WithContext(ctx)
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			l.Warn("op", slog.String("op", name), slog.Int64("dur_ms", dur.Milliseconds()), slog.String("error", (*errp).Error()))
			return
		}
		l.Debug("op", slog.String("op", name), slog.Int64("dur_ms", dur.Milliseconds()))
	}
}
