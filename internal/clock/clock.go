// Package clock supplies the current time in the configured civil timezone
// and the single timestamp format used for storage and display.
package clock

import (
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // zone database for hosts without one
)

// DefaultZone is the civil timezone every timestamp is normalized to.
const DefaultZone = "America/Phoenix"

// Layout is fixed-width so stored timestamps in one fixed-offset zone sort
// lexically.
const Layout = "2006-01-02T15:04:05.000000Z07:00"

// Clock returns the current time in its location.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// System is the wall clock.
type System struct {
	loc *time.Location
}

// NewSystem returns a wall clock reporting in the named zone.
func NewSystem(zone string) (*System, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return nil, err
	}
	return &System{loc: loc}, nil
}

// Now returns the current time in the clock's location.
func (s *System) Now() time.Time { return time.Now().In(s.loc) }

// Location returns the clock's location.
func (s *System) Location() *time.Location { return s.loc }

// LoadZone resolves a zone name, defaulting to DefaultZone when empty.
func LoadZone(zone string) (*time.Location, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", zone, err)
	}
	return loc, nil
}

// HasFixedOffset reports whether loc keeps one UTC offset all year. Stored
// timestamps compare lexically, which only orders them correctly when the
// offset never changes.
func HasFixedOffset(loc *time.Location) bool {
	year := time.Now().Year()
	_, first := time.Date(year, time.January, 1, 12, 0, 0, 0, loc).Zone()
	for month := time.February; month <= time.December; month++ {
		if _, off := time.Date(year, month, 1, 12, 0, 0, 0, loc).Zone(); off != first {
			return false
		}
	}
	return true
}

// Format renders t in Layout, preserving t's location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Stamp returns the current time of c formatted with Layout.
func Stamp(c Clock) string {
	return Format(c.Now())
}

// Parse reads a stored or client-supplied ISO-8601 timestamp. Values without
// an offset are taken as UTC.
func Parse(ts string) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", ts)
}

// Normalize converts a timestamp string into c's location and Layout.
func Normalize(c Clock, ts string) (string, error) {
	t, err := Parse(ts)
	if err != nil {
		return "", err
	}
	return Format(t.In(c.Location())), nil
}

// Fake is a settable clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a fake clock frozen at now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the frozen time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Location returns the location of the frozen time.
func (f *Fake) Location() *time.Location {
	return f.Now().Location()
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set moves the fake clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}
