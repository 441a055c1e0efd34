// ABOUTME: Parser for the now-playing XML written by the automation chain
// ABOUTME: Turns the single <song> element into a track with UTC timing
package observer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harper/radio-nowplaying/internal/domain/track"
)

var ErrParse = errors.New("parse now playing")

const songTimestampLayout = "2006-01-02T15:04:05"

type songElement struct {
	Timestamp *string `xml:"timestamp,attr"`
	Artist    *string `xml:"artist"`
	Title     *string `xml:"title"`
	Album     *string `xml:"album"`
	Track     *string `xml:"track"`
	Time      *string `xml:"time"`
}

// parseNowPlaying reads the first <song> element in r. The song timestamp
// lacks an offset, so offset (seconds east of UTC) is applied before the
// start time is converted to UTC. Timestamps that already carry an offset
// are taken as is.
func parseNowPlaying(r io.Reader, offset int, logger *zap.Logger) (*track.Track, error) {
	song, err := findSong(xml.NewDecoder(r))
	if err != nil {
		return nil, err
	}

	fields := []struct {
		name  string
		value *string
		def   string
	}{
		{"artist", song.Artist, track.DefaultArtist},
		{"title", song.Title, track.DefaultTitle},
		{"album", song.Album, ""},
		{"track", song.Track, ""},
		{"time", song.Time, ""},
	}

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.value == nil {
			return nil, fmt.Errorf("%w: no <%s> tag found", ErrParse, f.name)
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			logger.Info("element has empty value, ignoring", zap.String("element", f.name))
			v = f.def
		}
		values[f.name] = v
	}

	if song.Timestamp == nil {
		return nil, fmt.Errorf("%w: song timestamp attribute is missing", ErrParse)
	}
	start, err := parseSongTimestamp(strings.TrimSpace(*song.Timestamp), offset)
	if err != nil {
		return nil, err
	}

	t := track.New()
	t.SetArtist(values["artist"])
	t.SetTitle(values["title"])
	t.SetAlbum(values["album"])

	if v := values["track"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: track number %q: %v", ErrParse, v, err)
		}
		if err := t.SetNumber(n); err != nil {
			return nil, err
		}
	}

	if err := t.SetStartTime(start); err != nil {
		return nil, err
	}

	if v := values["time"]; v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: song time %q: %v", ErrParse, v, err)
		}
		t.SetDuration(time.Duration(secs) * time.Second)
	} else {
		t.SetDuration(0)
	}

	return t, nil
}

func findSong(dec *xml.Decoder) (*songElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no <song> tag found", ErrParse)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "song" {
			continue
		}

		var song songElement
		if err := dec.DecodeElement(&song, &start); err != nil {
			return nil, fmt.Errorf("%w: decode <song>: %v", ErrParse, err)
		}
		return &song, nil
	}
}

func parseSongTimestamp(ts string, offset int) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.UTC(), nil
	}

	t, err := time.ParseInLocation(songTimestampLayout, ts, time.FixedZone("", offset))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: song timestamp %q: %v", ErrParse, ts, err)
	}
	return t.UTC(), nil
}
