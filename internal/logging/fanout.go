package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler duplicates every record to a set of underlying handlers so
// console and file output stay independently configured.
type fanoutHandler struct {
	targets []slog.Handler
}

func newFanoutHandler(targets ...slog.Handler) slog.Handler {
	return &fanoutHandler{targets: targets}
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, t := range f.targets {
		if t.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, t := range f.targets {
		if !t.Enabled(ctx, r.Level) {
			continue
		}
		// each target gets its own copy; handlers may consume the record
		if err := t.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.apply(func(t slog.Handler) slog.Handler { return t.WithAttrs(attrs) })
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	return f.apply(func(t slog.Handler) slog.Handler { return t.WithGroup(name) })
}

func (f *fanoutHandler) apply(fn func(slog.Handler) slog.Handler) slog.Handler {
	out := make([]slog.Handler, len(f.targets))
	for i, t := range f.targets {
		out[i] = fn(t)
	}
	return newFanoutHandler(out...)
}
