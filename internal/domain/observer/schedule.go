// ABOUTME: Observer for every input other than Klangbecken
// ABOUTME: Those inputs carry no track info, so the current show stands in for the track
package observer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harper/radio-nowplaying/internal/domain"
	"github.com/harper/radio-nowplaying/internal/domain/show"
	"github.com/harper/radio-nowplaying/internal/domain/track"
)

type Schedule struct {
	shows  domain.ShowLookup
	sink   domain.TrackEventSink
	logger *zap.Logger

	hasPreviousInput bool
	previousInput    int
	show             *show.Show
	lastShow         *show.Show
	track            *track.Track
}

func NewSchedule(ctx context.Context, shows domain.ShowLookup, sink domain.TrackEventSink, logger *zap.Logger) (*Schedule, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	current, err := shows.ShowInfo(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("initial show lookup: %w", err)
	}

	return &Schedule{
		shows:  shows,
		sink:   sink,
		logger: logger.With(zap.String("observer", "schedule")),
		show:   current,
	}, nil
}

func (s *Schedule) Name() string {
	return "schedule"
}

func (s *Schedule) Update(ctx context.Context, inputID int) error {
	return update(ctx, s, inputID)
}

// Responsible is true for every input except Klangbecken. A change of input
// forces a fresh show lookup in case the schedule service answered nonsense.
func (s *Schedule) Responsible(ctx context.Context, inputID int) (bool, error) {
	if !s.hasPreviousInput || inputID != s.previousInput {
		s.logger.Info("input changed, forcing show update",
			zap.Int("previous", s.previousInput),
			zap.Int("input", inputID),
		)
		current, err := s.shows.ShowInfo(ctx, true)
		if err != nil {
			return false, fmt.Errorf("forced show lookup: %w", err)
		}
		s.show = current
	}

	s.previousInput = inputID
	s.hasPreviousInput = true

	return inputID != domain.KlangbeckenInputID, nil
}

// Reconcile emits TrackStarted whenever a new show begins. Shows are
// contiguous, so there is never a TrackFinished.
func (s *Schedule) Reconcile(ctx context.Context) error {
	current, err := s.shows.ShowInfo(ctx, false)
	if err != nil {
		return fmt.Errorf("show lookup: %w", err)
	}
	s.show = current

	if s.lastShow != nil && current.SameAs(s.lastShow) {
		return nil
	}

	s.logger.Info("show changed", zap.String("show", current.Name), zap.String("id", current.ID))

	t, err := trackForShow(current)
	if err != nil {
		return err
	}

	if err := s.sink.TrackStarted(ctx, t); err != nil {
		return fmt.Errorf("track started: %w", err)
	}

	s.track = t
	s.lastShow = current
	return nil
}

// Current returns the track last handed to TrackStarted, or nil.
func (s *Schedule) Current() *track.Track {
	return s.track
}

func trackForShow(sh *show.Show) (*track.Track, error) {
	t := track.New()
	t.SetArtist(track.DefaultArtist)
	t.SetTitle(track.DefaultTitle)

	if err := t.SetStartTime(sh.StartTime); err != nil {
		return nil, err
	}
	if err := t.SetEndTime(sh.EndTime); err != nil {
		return nil, err
	}
	t.SetShow(sh)

	return t, nil
}
