// ABOUTME: Polling driver that feeds the active input id to every observer
// ABOUTME: Builds observers from config and keeps the last poll status
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harper/radio-nowplaying/internal/application/config"
	"github.com/harper/radio-nowplaying/internal/domain"
	"github.com/harper/radio-nowplaying/internal/domain/observer"
	"github.com/harper/radio-nowplaying/internal/infrastructure/input"
	"github.com/harper/radio-nowplaying/internal/infrastructure/metrics"
	"github.com/harper/radio-nowplaying/internal/infrastructure/showclient"
	"github.com/harper/radio-nowplaying/internal/infrastructure/sink"
)

type Poller struct {
	interval time.Duration
	selector domain.InputSelector
	sources  []observer.Source
	recorder *sink.Recorder
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status
}

type Status struct {
	LastPoll   time.Time        `json:"last_poll"`
	Input      int              `json:"input"`
	InputError string           `json:"input_error,omitempty"`
	Observers  []ObserverStatus `json:"observers"`
}

type ObserverStatus struct {
	Name      string `json:"name"`
	Updates   int    `json:"updates"`
	Failures  int    `json:"failures"`
	LastError string `json:"last_error,omitempty"`
}

func New(interval time.Duration, selector domain.InputSelector, sources []observer.Source, recorder *sink.Recorder, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}

	observers := make([]ObserverStatus, len(sources))
	for i, src := range sources {
		observers[i].Name = src.Name()
	}

	return &Poller{
		interval: interval,
		selector: selector,
		sources:  sources,
		recorder: recorder,
		logger:   logger,
		status:   Status{Observers: observers},
	}
}

// NewFromConfig wires the show client, input selector, sinks, and both
// observers. Observer construction performs the initial show lookup.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Poller, error) {
	shows := showclient.NewHTTP(showclient.HTTPConfig{
		URL:          cfg.Show.URL,
		Timeout:      time.Duration(cfg.Show.TimeoutMs) * time.Millisecond,
		CacheTTL:     time.Duration(cfg.Show.CacheTTLMs) * time.Millisecond,
		FallbackName: cfg.Klangbecken.ShowName,
		FallbackURL:  cfg.Klangbecken.ShowURL,
	}, logger.Named("showclient"))

	recorder := sink.NewRecorder()
	events := sink.Multi{sink.NewLog(logger.Named("events")), recorder}

	loc := time.Local
	if cfg.Klangbecken.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Klangbecken.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}
	}

	kb, err := observer.NewKlangbecken(ctx, observer.KlangbeckenConfig{
		File:     cfg.Klangbecken.NowPlayingFile,
		ShowName: cfg.Klangbecken.ShowName,
		ShowURL:  cfg.Klangbecken.ShowURL,
		Location: loc,
	}, shows, events, logger)
	if err != nil {
		return nil, fmt.Errorf("create klangbecken observer: %w", err)
	}

	sched, err := observer.NewSchedule(ctx, shows, events, logger)
	if err != nil {
		return nil, fmt.Errorf("create schedule observer: %w", err)
	}

	interval := time.Duration(cfg.PollMs) * time.Millisecond
	sources := []observer.Source{kb, sched}

	return New(interval, input.NewFile(cfg.Input.File), sources, recorder, logger.Named("poller")), nil
}

// Run polls immediately and then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one poll: read the active input and update every source in order.
// Failures are logged and recorded; the next tick proceeds regardless.
func (p *Poller) Tick(ctx context.Context) {
	metrics.PollsTotal.Inc()

	id, err := p.selector.Current(ctx)
	if err != nil {
		p.logger.Warn("read active input failed", zap.Error(err))

		p.mu.Lock()
		p.status.LastPoll = time.Now()
		p.status.InputError = err.Error()
		p.mu.Unlock()
		return
	}
	metrics.ActiveInput.Set(float64(id))

	// Updates may block on show lookups; status readers must not wait on them.
	errs := make([]error, len(p.sources))
	for i, src := range p.sources {
		if errs[i] = src.Update(ctx, id); errs[i] != nil {
			p.logger.Warn("observer update failed",
				zap.String("observer", src.Name()),
				zap.Int("input", id),
				zap.Error(errs[i]),
			)
			metrics.PollErrorsTotal.WithLabelValues(src.Name()).Inc()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.LastPoll = time.Now()
	p.status.Input = id
	p.status.InputError = ""

	for i, err := range errs {
		obs := &p.status.Observers[i]
		obs.Updates++
		if err != nil {
			obs.Failures++
			obs.LastError = err.Error()
			continue
		}
		obs.LastError = ""
	}
}

func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.status
	s.Observers = append([]ObserverStatus(nil), p.status.Observers...)
	return s
}

// Recorder returns the sink that keeps the latest started track, or nil.
func (p *Poller) Recorder() *sink.Recorder {
	return p.recorder
}
