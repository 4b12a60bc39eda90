// Package stream carries consideration and qualified intake events over NATS.
package stream

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/chittyos/intake/internal/bootstrap/config"
	"github.com/chittyos/intake/internal/bootstrap/logging"
	"github.com/chittyos/intake/internal/errs"
	"github.com/chittyos/intake/internal/ports"
)

// NATSStream implements ports.EventStream on core NATS subjects.
type NATSStream struct {
	conn             *nats.Conn
	considerSubject  string
	qualifiedSubject string
}

func Connect(ctx context.Context, cfg config.StreamConfig) (*NATSStream, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("chittyintake"))
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "stream")),
		"event stream connected",
		slog.String("url", cfg.URL),
		slog.String("consider_subject", cfg.ConsiderSubject),
		slog.String("qualified_subject", cfg.QualifiedSubject),
	)

	return &NATSStream{
		conn:             conn,
		considerSubject:  cfg.ConsiderSubject,
		qualifiedSubject: cfg.QualifiedSubject,
	}, nil
}

func (s *NATSStream) PublishConsideration(ctx context.Context, payload []byte) error {
	return s.publish(ctx, s.considerSubject, payload)
}

func (s *NATSStream) PublishQualified(ctx context.Context, payload []byte) error {
	return s.publish(ctx, s.qualifiedSubject, payload)
}

func (s *NATSStream) publish(ctx context.Context, subject string, payload []byte) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	if err := s.conn.Publish(subject, payload); err != nil {
		return errs.Wrapf(err, "publish %s", subject)
	}
	return nil
}

func (s *NATSStream) ConsumeConsiderations(ctx context.Context, handle func(ctx context.Context, payload []byte)) (ports.Unsubscribe, error) {
	return s.subscribe(ctx, s.considerSubject, handle)
}

func (s *NATSStream) ConsumeQualified(ctx context.Context, handle func(ctx context.Context, payload []byte)) (ports.Unsubscribe, error) {
	return s.subscribe(ctx, s.qualifiedSubject, handle)
}

func (s *NATSStream) subscribe(ctx context.Context, subject string, handle func(ctx context.Context, payload []byte)) (ports.Unsubscribe, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if handle == nil {
		return nil, errors.New("handler is required")
	}

	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handle(ctx, msg.Data)
	})
	if err != nil {
		return nil, errs.Wrapf(err, "subscribe %s", subject)
	}
	return sub.Unsubscribe, nil
}

func (s *NATSStream) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
