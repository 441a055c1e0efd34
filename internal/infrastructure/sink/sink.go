// ABOUTME: Track event sinks: structured logging, fan-out, and a status recorder
// ABOUTME: The recorder feeds the HTTP status endpoint and Prometheus counters
package sink

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harper/radio-nowplaying/internal/domain"
	"github.com/harper/radio-nowplaying/internal/domain/track"
	"github.com/harper/radio-nowplaying/internal/infrastructure/metrics"
)

type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) TrackStarted(_ context.Context, t *track.Track) error {
	l.logger.Info("track started", trackFields(t)...)
	return nil
}

func (l *Log) TrackFinished(_ context.Context, t *track.Track) error {
	l.logger.Info("track finished", trackFields(t)...)
	return nil
}

func trackFields(t *track.Track) []zap.Field {
	fields := []zap.Field{
		zap.String("id", t.ID()),
		zap.String("artist", t.Artist()),
		zap.String("title", t.Title()),
		zap.String("album", t.Album()),
		zap.Time("start", t.StartTime()),
		zap.Time("end", t.EndTime()),
	}
	if s := t.Show(); s != nil {
		fields = append(fields, zap.String("show", s.Name), zap.String("show_id", s.ID))
	}
	return fields
}

// Multi forwards every event to each sink in order and stops at the first error.
type Multi []domain.TrackEventSink

func (m Multi) TrackStarted(ctx context.Context, t *track.Track) error {
	for _, s := range m {
		if err := s.TrackStarted(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) TrackFinished(ctx context.Context, t *track.Track) error {
	for _, s := range m {
		if err := s.TrackFinished(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Recorder remembers the latest started track. Safe for concurrent use.
type Recorder struct {
	mu        sync.RWMutex
	current   *track.Track
	started   int
	finished  int
	updatedAt time.Time
}

type Snapshot struct {
	Current   *track.Track
	Started   int
	Finished  int
	UpdatedAt time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) TrackStarted(_ context.Context, t *track.Track) error {
	r.mu.Lock()
	r.current = t
	r.started++
	r.updatedAt = time.Now()
	r.mu.Unlock()

	metrics.TrackEventsTotal.WithLabelValues("started").Inc()
	return nil
}

func (r *Recorder) TrackFinished(_ context.Context, _ *track.Track) error {
	r.mu.Lock()
	r.finished++
	r.updatedAt = time.Now()
	r.mu.Unlock()

	metrics.TrackEventsTotal.WithLabelValues("finished").Inc()
	return nil
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Current:   r.current,
		Started:   r.started,
		Finished:  r.finished,
		UpdatedAt: r.updatedAt,
	}
}
