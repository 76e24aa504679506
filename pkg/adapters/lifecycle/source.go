// Package lifecycle exposes note file events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/spatialnotes/pkg/core"
)

type notesSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits note file events.
// core.Event satisfies lifecycle.Event through its String method.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &notesSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *notesSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start bridges the events until ctx ends or the input channel closes, then
// closes the output channel.
func (s *notesSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
