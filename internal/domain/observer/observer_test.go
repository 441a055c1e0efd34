// ABOUTME: Shared fakes for observer tests
// ABOUTME: Records show lookups and emitted track events
package observer

import (
	"context"

	"github.com/harper/radio-nowplaying/internal/domain/show"
	"github.com/harper/radio-nowplaying/internal/domain/track"
)

type fakeShows struct {
	show   *show.Show
	err    error
	forced []bool
}

func (f *fakeShows) ShowInfo(_ context.Context, force bool) (*show.Show, error) {
	f.forced = append(f.forced, force)
	if f.err != nil {
		return nil, f.err
	}
	return f.show, nil
}

type event struct {
	kind  string
	track *track.Track
}

type fakeSink struct {
	events []event
}

func (f *fakeSink) TrackStarted(_ context.Context, t *track.Track) error {
	f.events = append(f.events, event{kind: "started", track: t})
	return nil
}

func (f *fakeSink) TrackFinished(_ context.Context, t *track.Track) error {
	f.events = append(f.events, event{kind: "finished", track: t})
	return nil
}

func (f *fakeSink) kinds() []string {
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.kind
	}
	return out
}
