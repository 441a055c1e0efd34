// ABOUTME: Domain interfaces for dependency inversion
// ABOUTME: Lets observers depend on abstractions, not concrete clients and sinks
package domain

import (
	"context"

	"github.com/harper/radio-nowplaying/internal/domain/show"
	"github.com/harper/radio-nowplaying/internal/domain/track"
)

// KlangbeckenInputID is the input reserved for the automation failover channel.
const KlangbeckenInputID = 1

// ShowLookup returns the show currently on air. force bypasses any cache.
type ShowLookup interface {
	ShowInfo(ctx context.Context, force bool) (*show.Show, error)
}

// TrackEventSink receives track transitions.
type TrackEventSink interface {
	TrackStarted(ctx context.Context, t *track.Track) error
	TrackFinished(ctx context.Context, t *track.Track) error
}

// InputSelector reports which studio input is currently on air.
type InputSelector interface {
	Current(ctx context.Context) (int, error)
}
