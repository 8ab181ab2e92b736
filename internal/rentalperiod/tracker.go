// Package rentalperiod keeps, per vehicle plate, the set of booked date
// intervals and answers availability questions against it.
package rentalperiod

import (
	"sync"

	"drivequest-fleet/internal/domain"
)

// periodSet holds the intervals of one plate, keyed by start date.
type periodSet struct {
	mu      sync.Mutex
	periods map[domain.Date]domain.Date
}

func newPeriodSet() *periodSet {
	return &periodSet{periods: make(map[domain.Date]domain.Date)}
}

// availableLocked requires s.mu to be held.
func (s *periodSet) availableLocked(start, end domain.Date) bool {
	for ps, pe := range s.periods {
		if domain.Overlaps(start, end, ps, pe) {
			return false
		}
	}
	return true
}

func (s *periodSet) copyLocked() map[domain.Date]domain.Date {
	out := make(map[domain.Date]domain.Date, len(s.periods))
	for k, v := range s.periods {
		out[k] = v
	}
	return out
}

// Tracker is safe for concurrent use. Mutations on one plate are serialized;
// different plates proceed in parallel. A plate's set, once created, stays in
// the map for the life of the tracker, so a caller never mutates a set that
// another goroutine has already detached.
type Tracker struct {
	mu   sync.RWMutex
	sets map[string]*periodSet
}

func NewTracker() *Tracker {
	return &Tracker{sets: make(map[string]*periodSet)}
}

func (t *Tracker) lookup(plate string) *periodSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sets[plate]
}

func (t *Tracker) lookupOrCreate(plate string) *periodSet {
	if s := t.lookup(plate); s != nil {
		return s
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sets[plate]
	if !ok {
		s = newPeriodSet()
		t.sets[plate] = s
	}
	return s
}

// IsAvailable reports whether [start, end] overlaps none of the plate's
// intervals. Unknown plates are always available. start <= end is not checked.
func (t *Tracker) IsAvailable(plate string, start, end domain.Date) bool {
	s := t.lookup(plate)
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableLocked(start, end)
}

// Book inserts [start, end] if it overlaps nothing already booked.
func (t *Tracker) Book(plate string, start, end domain.Date) bool {
	s := t.lookupOrCreate(plate)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.availableLocked(start, end) {
		return false
	}
	s.periods[start] = end
	return true
}

// Extend moves the end of the interval ending on originalEnd to newEnd. It
// fails when no interval ends on originalEnd, when more than one does, when
// newEnd would fall before the interval's start, or when the added days
// [originalEnd+1, newEnd] collide with another booking.
func (t *Tracker) Extend(plate string, originalEnd, newEnd domain.Date) bool {
	s := t.lookup(plate)
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start, matches := findByEnd(s.periods, originalEnd)
	if matches != 1 {
		return false
	}
	if newEnd.Before(start) {
		return false
	}
	// When shrinking, the availability check runs with inverted bounds; it only
	// trips on an interval spanning the whole inverted window.
	if !s.availableLocked(originalEnd.AddDays(1), newEnd) {
		return false
	}
	s.periods[start] = newEnd
	return true
}

// Cancel removes the interval starting on start and reports whether it existed.
func (t *Tracker) Cancel(plate string, start domain.Date) bool {
	s := t.lookup(plate)
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[start]; !ok {
		return false
	}
	delete(s.periods, start)
	return true
}

// Periods returns a copy of the plate's start->end mapping.
func (t *Tracker) Periods(plate string) map[domain.Date]domain.Date {
	s := t.lookup(plate)
	if s == nil {
		return map[domain.Date]domain.Date{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// EndingOn counts the plate's intervals that end on end and returns the start
// of one of them.
func (t *Tracker) EndingOn(plate string, end domain.Date) (domain.Date, int) {
	s := t.lookup(plate)
	if s == nil {
		return domain.Date{}, 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByEnd(s.periods, end)
}

// Forget drops every interval of the plate.
func (t *Tracker) Forget(plate string) {
	s := t.lookup(plate)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.periods)
}

// Restore replaces the plate's intervals with periods. Overlapping input is
// rejected as a whole and reported by the returned bool.
func (t *Tracker) Restore(plate string, periods []domain.RentalPeriod) bool {
	staged := make(map[domain.Date]domain.Date, len(periods))
	for _, p := range periods {
		if p.End.Before(p.Start) {
			return false
		}
		for ps, pe := range staged {
			if domain.Overlaps(p.Start, p.End, ps, pe) {
				return false
			}
		}
		staged[p.Start] = p.End
	}

	s := t.lookupOrCreate(plate)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods = staged
	return true
}

// Snapshot copies every non-empty set.
func (t *Tracker) Snapshot() map[string]map[domain.Date]domain.Date {
	t.mu.RLock()
	plates := make(map[string]*periodSet, len(t.sets))
	for plate, s := range t.sets {
		plates[plate] = s
	}
	t.mu.RUnlock()

	out := make(map[string]map[domain.Date]domain.Date, len(plates))
	for plate, s := range plates {
		s.mu.Lock()
		if len(s.periods) > 0 {
			out[plate] = s.copyLocked()
		}
		s.mu.Unlock()
	}
	return out
}

func findByEnd(periods map[domain.Date]domain.Date, end domain.Date) (domain.Date, int) {
	var (
		start   domain.Date
		matches int
	)
	for ps, pe := range periods {
		if pe == end {
			start = ps
			matches++
		}
	}
	return start, matches
}
