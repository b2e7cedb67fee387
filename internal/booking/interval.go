package booking

import (
	"time"

	"resource-booking-backend/internal/failure"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Contains reports whether t lies in [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// HasConflict reports whether candidate overlaps any of the existing intervals.
// The caller is responsible for passing only intervals of the same asset.
func HasConflict(candidate Interval, existing []Interval) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}

// User-facing messages for rejected bookings.
const (
	MsgEndBeforeStart = "Endzeit muss nach der Startzeit liegen."
	MsgInPast         = "Buchungen in der Vergangenheit sind nicht erlaubt."
	MsgConflict       = "Dieser Zeitraum ist bereits belegt."
	MsgMaintenance    = "Diese Ressource ist derzeit außer Betrieb."
)

// Validate applies the creation-time rules that run before any conflict check.
func Validate(candidate Interval, now time.Time) error {
	if !candidate.Start.Before(candidate.End) {
		return failure.Validation(MsgEndBeforeStart)
	}
	if candidate.Start.Before(now) {
		return failure.Validation(MsgInPast)
	}
	return nil
}
