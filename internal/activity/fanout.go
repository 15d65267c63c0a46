package activity

import (
	"context"
	"errors"
)

// Fanout appends every event to each of its stores and joins their errors.
// A failing sink does not prevent the others from receiving the event.
type Fanout []Store

func (f Fanout) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
