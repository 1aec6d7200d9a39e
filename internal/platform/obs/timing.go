package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, or "" when there is none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs how long the named operation took. Use it as
//
//	defer obs.Time(ctx, "op")(&err)
//
// so the final error, if any, is logged with the duration.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("req_id=%s op=%s dur=%.3fms err=%v", reqID, name, float64(dur.Microseconds())/1000, *errp)
			return
		}
		log.Printf("req_id=%s op=%s dur=%.3fms", reqID, name, float64(dur.Microseconds())/1000)
	}
}
