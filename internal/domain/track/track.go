// ABOUTME: Track entity describing one played item with timing and show
// ABOUTME: Setters validate their input and fail with track errors
package track

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harper/radio-nowplaying/internal/domain/show"
)

const (
	DefaultArtist = "Radio Bern"
	DefaultTitle  = "Livestream"
)

var (
	ErrInvalidTrackNumber = errors.New("track number has to be a non-negative integer")
	ErrInvalidTime        = errors.New("time has to be a set timestamp")
)

// Error reports which attribute rejected a value.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("track %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Track struct {
	id        string
	artist    string
	title     string
	album     string
	number    int
	startTime time.Time
	endTime   time.Time
	show      *show.Show
}

// New returns a track with default artist and title, track number 1 and
// start and end set to now.
func New() *Track {
	now := time.Now().UTC()
	return &Track{
		id:        uuid.NewString(),
		artist:    DefaultArtist,
		title:     DefaultTitle,
		number:    1,
		startTime: now,
		endTime:   now,
	}
}

func (t *Track) ID() string { return t.id }
func (t *Track) Artist() string { return t.artist }
func (t *Track) Title() string { return t.title }
func (t *Track) Album() string { return t.album }
func (t *Track) Number() int { return t.number }
func (t *Track) StartTime() time.Time { return t.startTime }
func (t *Track) EndTime() time.Time { return t.endTime }
func (t *Track) Show() *show.Show { return t.show }

func (t *Track) SetArtist(artist string) { t.artist = artist }
func (t *Track) SetTitle(title string) { t.title = title }
func (t *Track) SetAlbum(album string) { t.album = album }
func (t *Track) SetShow(s *show.Show) { t.show = s }

func (t *Track) SetNumber(n int) error {
	if n < 0 {
		return &Error{Field: "number", Err: ErrInvalidTrackNumber}
	}
	t.number = n
	return nil
}

func (t *Track) SetStartTime(start time.Time) error {
	if start.IsZero() {
		return &Error{Field: "starttime", Err: ErrInvalidTime}
	}
	t.startTime = start.UTC()
	return nil
}

func (t *Track) SetEndTime(end time.Time) error {
	if end.IsZero() {
		return &Error{Field: "endtime", Err: ErrInvalidTime}
	}
	t.endTime = end.UTC()
	return nil
}

// SetDuration moves the end time to start + d.
func (t *Track) SetDuration(d time.Duration) {
	t.endTime = t.startTime.Add(d)
}

// Duration is end minus start.
func (t *Track) Duration() time.Duration {
	return t.endTime.Sub(t.startTime)
}

func (t *Track) HasDefaultArtist() bool {
	return t.artist == DefaultArtist
}

func (t *Track) HasDefaultTitle() bool {
	return t.title == DefaultTitle
}

func (t *Track) String() string {
	return fmt.Sprintf("Track '%s' - '%s', start: '%s', end: '%s', uid: %s",
		t.artist, t.title,
		t.startTime.Format(time.RFC3339), t.endTime.Format(time.RFC3339),
		t.id)
}
