// ABOUTME: Observation sources decide on each poll whether a track transition happened
// ABOUTME: Source is implemented by the Klangbecken automation and schedule observers
package observer

import (
	"context"
)

// Source watches one input signal. The poller calls Update once per tick
// with the identifier of the input currently on air.
//
// A Source is not safe for concurrent use.
type Source interface {
	Name() string
	Update(ctx context.Context, inputID int) error
}

type responder interface {
	Responsible(ctx context.Context, inputID int) (bool, error)
	Reconcile(ctx context.Context) error
}

func update(ctx context.Context, r responder, inputID int) error {
	ok, err := r.Responsible(ctx, inputID)
	if err != nil || !ok {
		return err
	}
	return r.Reconcile(ctx)
}
