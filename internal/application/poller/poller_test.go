// ABOUTME: Tests for the polling driver
// ABOUTME: Verifies tick fan-out, error recording, and config wiring
package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/harper/radio-nowplaying/internal/application/config"
	"github.com/harper/radio-nowplaying/internal/domain/observer"
)

type fakeSelector struct {
	id  int
	err error
}

func (f *fakeSelector) Current(context.Context) (int, error) {
	return f.id, f.err
}

type fakeSource struct {
	name  string
	err   error
	calls []int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Update(_ context.Context, id int) error {
	f.calls = append(f.calls, id)
	return f.err
}

func TestTick_UpdatesEverySource(t *testing.T) {
	a := &fakeSource{name: "a", err: errors.New("broken file")}
	b := &fakeSource{name: "b"}
	sel := &fakeSelector{id: 3}

	p := New(time.Second, sel, []observer.Source{a, b}, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	p.Tick(ctx)
	sel.id = 1
	p.Tick(ctx)

	if len(a.calls) != 2 || len(b.calls) != 2 {
		t.Fatalf("expected 2 calls each, got %v and %v", a.calls, b.calls)
	}
	if b.calls[0] != 3 || b.calls[1] != 1 {
		t.Errorf("expected inputs [3 1], got %v", b.calls)
	}

	status := p.Status()
	if status.Input != 1 {
		t.Errorf("expected input 1, got %d", status.Input)
	}
	if status.Observers[0].Failures != 2 || status.Observers[0].LastError != "broken file" {
		t.Errorf("unexpected status for a: %+v", status.Observers[0])
	}
	if status.Observers[1].Failures != 0 || status.Observers[1].Updates != 2 {
		t.Errorf("unexpected status for b: %+v", status.Observers[1])
	}
}

func TestTick_InputError(t *testing.T) {
	src := &fakeSource{name: "a"}
	sel := &fakeSelector{err: errors.New("no input")}

	p := New(time.Second, sel, []observer.Source{src}, nil, zaptest.NewLogger(t))
	p.Tick(context.Background())

	if len(src.calls) != 0 {
		t.Errorf("expected no updates, got %v", src.calls)
	}
	if p.Status().InputError != "no input" {
		t.Errorf("expected input error, got %q", p.Status().InputError)
	}
}

type blockingSource struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSource) Name() string { return "blocking" }

func (b *blockingSource) Update(context.Context, int) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestStatus_DoesNotWaitForUpdates(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{}), release: make(chan struct{})}
	p := New(time.Second, &fakeSelector{id: 2}, []observer.Source{src}, nil, zaptest.NewLogger(t))

	ticked := make(chan struct{})
	go func() {
		p.Tick(context.Background())
		close(ticked)
	}()
	<-src.entered

	got := make(chan Status, 1)
	go func() { got <- p.Status() }()

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("Status blocked behind a running update")
	}

	close(src.release)
	<-ticked

	if status := p.Status(); status.Input != 2 || status.Observers[0].Updates != 1 {
		t.Errorf("unexpected status after tick: %+v", status)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	src := &fakeSource{name: "a"}
	p := New(time.Hour, &fakeSelector{id: 2}, []observer.Source{src}, nil, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewFromConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Morning Show",
			"url": "http://example.com/morning",
			"id": "morning-1",
			"starttime": "2024-03-01T06:00:00Z",
			"endtime": "2024-03-01T08:00:00Z"
		}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input")
	nowPlaying := filepath.Join(dir, "now-playing.xml")

	if err := os.WriteFile(inputPath, []byte("1\n"), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	xml := `<now_playing><song timestamp="2024-03-01T07:10:00">
		<title>Song</title><artist>Artist</artist><album></album><track>1</track><time>200</time>
	</song></now_playing>`
	if err := os.WriteFile(nowPlaying, []byte(xml), 0644); err != nil {
		t.Fatalf("write now playing: %v", err)
	}

	cfg := &config.Config{
		PollMs:      1000,
		Input:       config.InputConfig{File: inputPath},
		Klangbecken: config.KlangbeckenConfig{NowPlayingFile: nowPlaying, Timezone: "UTC"},
		Show:        config.ShowConfig{URL: server.URL, TimeoutMs: 5000},
	}
	cfg.ApplyDefaults()

	p, err := NewFromConfig(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	ctx := context.Background()
	p.Tick(ctx)

	snap := p.Recorder().Snapshot()
	if snap.Started != 1 || snap.Current == nil {
		t.Fatalf("expected 1 started track, got %+v", snap)
	}
	if snap.Current.Title() != "Song" {
		t.Errorf("expected Song, got %q", snap.Current.Title())
	}
	if snap.Current.Show().Name != "Klangbecken" {
		t.Errorf("expected Klangbecken show, got %q", snap.Current.Show().Name)
	}

	if err := os.WriteFile(inputPath, []byte("2\n"), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	p.Tick(ctx)

	snap = p.Recorder().Snapshot()
	if snap.Started != 2 || snap.Finished != 0 {
		t.Fatalf("expected 2 started and 0 finished, got %d and %d", snap.Started, snap.Finished)
	}
	if snap.Current.Show().ID != "morning-1" {
		t.Errorf("expected morning show, got %q", snap.Current.Show().ID)
	}

	for _, obs := range p.Status().Observers {
		if obs.Failures != 0 {
			t.Errorf("unexpected failure in %s: %s", obs.Name, obs.LastError)
		}
	}
}
