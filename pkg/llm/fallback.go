package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Observer receives the outcome of each provider call.
type Observer interface {
	ObserveLLM(provider string, err error, d time.Duration)
}

type FallbackOption func(*fallback)

// WithObserver sets an Observer notified on each provider call.
func WithObserver(o Observer) FallbackOption {
	return func(f *fallback) {
		f.observer = o
	}
}

// Logger is satisfied by echo.Logger and gommon's *log.Logger.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// WithLogger sets a logger to report failing providers.
func WithLogger(l Logger) FallbackOption {
	return func(f *fallback) {
		f.logger = l
	}
}

// WithTimeout bounds a whole Complete, including every fallback.
func WithTimeout(d time.Duration) FallbackOption {
	return func(f *fallback) {
		f.timeout = d
	}
}

type fallback struct {
	providers []Completer
	observer  Observer
	logger    Logger
	timeout   time.Duration
}

// Fallback returns a Completer which tries providers in order.
//
// The answer of the first provider which succeeds is returned.
// When all providers fail, their errors are joined.
// When ctx is done, Fallback stops trying.
func Fallback(providers []Completer, opts ...FallbackOption) Completer {
	f := &fallback{providers: providers}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *fallback) Name() string {
	return "fallback"
}

func (f *fallback) Complete(ctx context.Context, p Prompt) (string, error) {
	if len(f.providers) == 0 {
		return "", ErrNoProvider
	}
	if 0 < f.timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	errs := []error{}
	for _, c := range f.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		started := time.Now()
		text, err := c.Complete(ctx, p)
		if f.observer != nil {
			f.observer.ObserveLLM(c.Name(), err, time.Since(started))
		}
		if err == nil {
			return text, nil
		}
		if f.logger != nil {
			f.logger.Warnf("llm provider %s failed: %s", c.Name(), err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
	}
	return "", errors.Join(errs...)
}

// Observed wraps a Describer to notify o on each call.
func Observed(d Describer, o Observer) Describer {
	if o == nil {
		return d
	}
	return &observed{Describer: d, observer: o}
}

type observed struct {
	Describer
	observer Observer
}

func (o *observed) Describe(ctx context.Context, image []byte, mime string, prompt string) (string, error) {
	started := time.Now()
	text, err := o.Describer.Describe(ctx, image, mime, prompt)
	o.observer.ObserveLLM(o.Describer.Name(), err, time.Since(started))
	return text, err
}
