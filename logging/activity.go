package logging

import (
	"context"

	auth "github.com/goliatone/go-auth-bookmarks"
	"github.com/goliatone/go-auth-bookmarks/activitymap"
)

// NewActivitySink logs every normalized auth event at info level
func NewActivitySink(logger auth.Logger, opts ...activitymap.Option) auth.ActivitySink {
	return auth.ActivitySinkFunc(func(_ context.Context, event auth.ActivityEvent) error {
		record := activitymap.Normalize(event, opts...)
		logger.Info("activity", record.Fields()...)
		return nil
	})
}
