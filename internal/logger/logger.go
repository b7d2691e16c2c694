// Package logger provides a context-scoped structured logger built on logrus.
package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var base = logrus.New()

func init() {
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// WithFields returns a derived context carrying a logrus entry annotated with fields.
// Existing fields on ctx (if any) are preserved and merged.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	entry := entryFrom(ctx).WithFields(fields)
	return context.WithValue(ctx, ctxKey{}, entry)
}

// CloneContext copies the current logging entry onto a fresh context, the way a
// request handler hands its logging scope down into a background operation.
func CloneContext(ctx context.Context) context.Context {
	return context.WithValue(context.Background(), ctxKey{}, entryFrom(ctx))
}

func entryFrom(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if e, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
			return e
		}
	}
	return logrus.NewEntry(base)
}

func Infof(ctx context.Context, format string, args ...interface{})  { entryFrom(ctx).Infof(format, args...) }
func Warnf(ctx context.Context, format string, args ...interface{})  { entryFrom(ctx).Warnf(format, args...) }
func Errorf(ctx context.Context, format string, args ...interface{}) { entryFrom(ctx).Errorf(format, args...) }
func Debugf(ctx context.Context, format string, args ...interface{}) { entryFrom(ctx).Debugf(format, args...) }

func Info(ctx context.Context, args ...interface{})  { entryFrom(ctx).Info(args...) }
func Warn(ctx context.Context, args ...interface{})  { entryFrom(ctx).Warn(args...) }
func Error(ctx context.Context, args ...interface{}) { entryFrom(ctx).Error(args...) }

// Fatalf logs at fatal level and exits the process; used only at startup.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	entryFrom(ctx).Fatalf(format, args...)
}
