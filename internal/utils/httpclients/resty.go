// Package httpclients builds the resty clients used for outbound calls,
// with request/response logging wired in.
package httpclients

import (
	"context"
	"time"

	"resty.dev/v3"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/logger"
)

type startedAtKey struct{}

// NewClient returns a resty client that logs every exchange at debug
// level under the given client name.
func NewClient(clientName string) *resty.Client {
	client := resty.New()
	client.AddRequestMiddleware(func(_ *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), startedAtKey{}, time.Now()))
		return nil
	})
	client.AddResponseMiddleware(func(_ *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		var latency time.Duration
		if start, ok := r.Request.Context().Value(startedAtKey{}).(time.Time); ok {
			latency = time.Since(start)
		}
		log.Debug().
			Str("client", clientName).
			Str("method", r.Request.RawRequest.Method).
			Str("path", r.Request.RawRequest.URL.Path).
			Int("status", r.StatusCode()).
			Dur("latency", latency).
			Msg("outbound request")
		return nil
	})
	return client
}
