package intake

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chittyos/intake/internal/bootstrap/logging"
	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/ports"
)

// ConsumeStream subscribes the pipeline to both stream directions:
// consideration events feed qualification, qualified events feed intake. The
// returned stop function tears both subscriptions down.
func (s *Service) ConsumeStream(ctx context.Context) (func(), error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if s.stream == nil {
		return nil, errors.New("event stream is not configured")
	}

	unsubConsider, err := s.stream.ConsumeConsiderations(ctx, s.HandleConsideration)
	if err != nil {
		return nil, errs.Wrap(err, "subscribe considerations")
	}

	unsubQualified, err := s.stream.ConsumeQualified(ctx, s.HandleQualified)
	if err != nil {
		unsubscribe(ctx, unsubConsider)
		return nil, errs.Wrap(err, "subscribe qualified events")
	}

	logging.Info(ctx, "stream worker subscribed")

	return func() {
		unsubscribe(ctx, unsubConsider)
		unsubscribe(ctx, unsubQualified)
	}, nil
}

func unsubscribe(ctx context.Context, unsub ports.Unsubscribe) {
	if unsub == nil {
		return
	}
	if err := unsub(); err != nil {
		logging.Warn(ctx, "unsubscribe failed", slog.String("error", err.Error()))
	}
}
