// ABOUTME: Show value type describing a scheduled program
// ABOUTME: Includes the synthetic show used when Klangbecken overrides the schedule
package show

import (
	"time"

	"github.com/google/uuid"
)

type Show struct {
	Name      string
	URL       string
	ID        string
	StartTime time.Time
	EndTime   time.Time
}

// NewSynthetic builds a show that did not come from the schedule service.
// The start time is now, or endTime if that already passed. The id is
// freshly generated on every call.
func NewSynthetic(name, url string, endTime time.Time) *Show {
	start := time.Now().UTC()
	if !endTime.IsZero() && endTime.Before(start) {
		start = endTime.UTC()
	}

	return &Show{
		Name:      name,
		URL:       url,
		ID:        uuid.NewString(),
		StartTime: start,
		EndTime:   endTime,
	}
}

// SameAs reports whether both shows carry the same identifier.
func (s *Show) SameAs(other *Show) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ID == other.ID
}
