// Package filewatch ties a context's lifetime to files on disk.
package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext returns a context that is canceled when one of the watched
// paths is written, created, removed or renamed. Attribute-only changes (chmod) are ignored.
//
// The cause of the cancellation (context.Cause) names the file and the operation.
//
// When watching cannot start, the returned context and cancel function are nil.
func UntilModifyContext(ctx context.Context, paths ...string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			cancel(err)
			return nil, nil, err
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op == fsnotify.Chmod {
					continue
				}
				cancel(fmt.Errorf("%s is updated (%s)", ev.Name, ev.Op))
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(fmt.Errorf("watching files: %w", err))
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
