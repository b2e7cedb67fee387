package ics

import (
	"fmt"
	"strings"
	"time"

	"resource-booking-backend/internal/model"
)

const (
	// ContentType is the media type of a rendered calendar.
	ContentType = "text/calendar;charset=utf-8"

	stampLayout = "20060102T150405Z"
	uidDomain   = "belegt.local"
)

// Render returns a single-event iCalendar document for b. Lines are joined with
// CRLF and the document has no trailing line break.
func Render(b model.Booking, assetName string, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Belegt?//DE",
		"CALSCALE:GREGORIAN",
		"BEGIN:VEVENT",
		"DTSTAMP:" + stamp(now),
		fmt.Sprintf("UID:%s@%s", b.ID, uidDomain),
		"DTSTART:" + stamp(b.StartTime),
		"DTEND:" + stamp(b.EndTime),
		fmt.Sprintf("SUMMARY:%s (%s)", b.Title, assetName),
		"DESCRIPTION:Gebucht von " + b.UserName,
		"LOCATION:" + assetName,
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n")
}

// Filename is the download name of the calendar file for b.
func Filename(b model.Booking) string {
	return fmt.Sprintf("booking_%s.ics", b.ID)
}

func stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}
