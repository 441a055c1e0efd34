// ABOUTME: Observer for the Klangbecken automation input
// ABOUTME: Watches the now-playing XML file and emits finished/started pairs
package observer

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/harper/radio-nowplaying/internal/domain"
	"github.com/harper/radio-nowplaying/internal/domain/show"
	"github.com/harper/radio-nowplaying/internal/domain/track"
)

const (
	KlangbeckenShowName = "Klangbecken"
	KlangbeckenShowURL  = "http://www.rabe.ch/sendungen/musik/klangbecken.html"
)

type KlangbeckenConfig struct {
	// File is the now-playing XML regenerated by the automation on every track.
	File     string
	ShowName string
	ShowURL  string
	// Location supplies the UTC offset applied to song timestamps.
	// Defaults to time.Local.
	Location *time.Location
}

type Klangbecken struct {
	cfg    KlangbeckenConfig
	shows  domain.ShowLookup
	sink   domain.TrackEventSink
	logger *zap.Logger
	now    func() time.Time

	firstRun     bool
	lastModified time.Time
	show         *show.Show
	track        *track.Track
}

func NewKlangbecken(ctx context.Context, cfg KlangbeckenConfig, shows domain.ShowLookup, sink domain.TrackEventSink, logger *zap.Logger) (*Klangbecken, error) {
	if cfg.ShowName == "" {
		cfg.ShowName = KlangbeckenShowName
	}
	if cfg.ShowURL == "" {
		cfg.ShowURL = KlangbeckenShowURL
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	current, err := shows.ShowInfo(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("initial show lookup: %w", err)
	}

	info, err := os.Stat(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("stat now playing file: %w", err)
	}

	return &Klangbecken{
		cfg:          cfg,
		shows:        shows,
		sink:         sink,
		logger:       logger.With(zap.String("observer", "klangbecken")),
		now:          time.Now,
		firstRun:     true,
		lastModified: info.ModTime(),
		show:         current,
	}, nil
}

func (k *Klangbecken) Name() string {
	return "klangbecken"
}

func (k *Klangbecken) Update(ctx context.Context, inputID int) error {
	return update(ctx, k, inputID)
}

// Responsible is true only while the automation input is on air.
func (k *Klangbecken) Responsible(_ context.Context, inputID int) (bool, error) {
	return inputID == domain.KlangbeckenInputID, nil
}

// Reconcile emits track events when the now-playing file changed since the
// last poll, or unconditionally on the first poll.
//
// A stale file (automation stopped writing) looks the same as an unchanged one.
func (k *Klangbecken) Reconcile(ctx context.Context) error {
	info, err := os.Stat(k.cfg.File)
	if err != nil {
		return fmt.Errorf("stat now playing file: %w", err)
	}
	modified := info.ModTime()

	if !k.firstRun && !modified.After(k.lastModified) {
		return nil
	}

	k.logger.Info("now playing file changed",
		zap.Time("modified", modified),
		zap.Bool("first_run", k.firstRun),
	)

	current, err := k.shows.ShowInfo(ctx, false)
	if err != nil {
		return fmt.Errorf("show lookup: %w", err)
	}

	next, err := k.readTrack()
	if err != nil {
		return err
	}

	if !k.firstRun && k.track != nil {
		k.logger.Info("calling track_finished", zap.String("track", k.track.ID()))
		if err := k.sink.TrackFinished(ctx, k.track); err != nil {
			return fmt.Errorf("track finished: %w", err)
		}
	}

	// Klangbecken is the failover input, so its show always reads as
	// Klangbecken no matter what the schedule says. Its end is unknown and
	// follows the current track.
	if current.Name != k.cfg.ShowName {
		k.logger.Info("klangbecken input active, overriding current show",
			zap.String("show", current.Name),
			zap.String("override", k.cfg.ShowName),
		)
		current = show.NewSynthetic(k.cfg.ShowName, k.cfg.ShowURL, next.EndTime())
	}
	next.SetShow(current)

	k.show = current
	k.track = next
	k.lastModified = modified
	k.firstRun = false

	k.logger.Info("calling track_started", zap.String("track", next.ID()))
	if err := k.sink.TrackStarted(ctx, next); err != nil {
		return fmt.Errorf("track started: %w", err)
	}
	return nil
}

// Current returns the track last handed to TrackStarted, or nil.
func (k *Klangbecken) Current() *track.Track {
	return k.track
}

func (k *Klangbecken) readTrack() (*track.Track, error) {
	f, err := os.Open(k.cfg.File)
	if err != nil {
		return nil, fmt.Errorf("open now playing file: %w", err)
	}
	defer f.Close()

	// The song timestamp carries no offset; use the one in effect right now.
	_, offset := k.now().In(k.cfg.Location).Zone()

	return parseNowPlaying(f, offset, k.logger)
}
