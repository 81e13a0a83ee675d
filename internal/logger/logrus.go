package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	ctxKeyLog ctxKey = iota
)

// Entry returns the log entry carried by ctx. Contexts without one get an
// entry on the standard logger so leaf packages never need setup.
func Entry(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKeyLog).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func WithLogEntry(ctx context.Context, e *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKeyLog, e)
}

// WithField is shorthand for deriving a child entry and storing it in ctx.
func WithField(ctx context.Context, key string, value interface{}) (context.Context, *logrus.Entry) {
	e := Entry(ctx).WithField(key, value)
	return WithLogEntry(ctx, e), e
}
