// ABOUTME: HTTP handlers for the observer status surface
// ABOUTME: Serves health, observer status with the current track, and Prometheus metrics
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harper/radio-nowplaying/internal/application/poller"
	"github.com/harper/radio-nowplaying/internal/domain/track"
)

func NewRouter(p *poller.Poller) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", NewHealthzHandler(p).ServeHTTP)
	r.Get("/observers", NewObserversHandler(p).ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

type ObserversHandler struct {
	poller *poller.Poller
}

func NewObserversHandler(p *poller.Poller) *ObserversHandler {
	return &ObserversHandler{poller: p}
}

type trackInfo struct {
	ID        string `json:"id"`
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	Album     string `json:"album"`
	Number    int    `json:"track"`
	StartTime string `json:"starttime"`
	EndTime   string `json:"endtime"`
	Show      string `json:"show,omitempty"`
	ShowURL   string `json:"show_url,omitempty"`
}

func (h *ObserversHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type response struct {
		poller.Status
		Current   *trackInfo `json:"current,omitempty"`
		Started   int        `json:"started"`
		Finished  int        `json:"finished"`
		UpdatedAt *string    `json:"updated_at,omitempty"`
	}

	resp := response{Status: h.poller.Status()}

	if rec := h.poller.Recorder(); rec != nil {
		snap := rec.Snapshot()
		resp.Started = snap.Started
		resp.Finished = snap.Finished
		if snap.Current != nil {
			resp.Current = newTrackInfo(snap.Current)
		}
		if !snap.UpdatedAt.IsZero() {
			s := snap.UpdatedAt.Format(time.RFC3339)
			resp.UpdatedAt = &s
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func newTrackInfo(t *track.Track) *trackInfo {
	info := &trackInfo{
		ID:        t.ID(),
		Artist:    t.Artist(),
		Title:     t.Title(),
		Album:     t.Album(),
		Number:    t.Number(),
		StartTime: t.StartTime().Format(time.RFC3339),
		EndTime:   t.EndTime().Format(time.RFC3339),
	}
	if s := t.Show(); s != nil {
		info.Show = s.Name
		info.ShowURL = s.URL
	}
	return info
}

type HealthzHandler struct {
	poller *poller.Poller
}

func NewHealthzHandler(p *poller.Poller) *HealthzHandler {
	return &HealthzHandler{poller: p}
}

// ServeHTTP reports 503 when the active input could not be read on the last poll.
func (h *HealthzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type response struct {
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	status := h.poller.Status()
	resp := response{OK: status.InputError == "", Error: status.InputError}

	w.Header().Set("Content-Type", "application/json")
	if !resp.OK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(resp)
}
