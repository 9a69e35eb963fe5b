// utils/ical.go
package utils

import (
	"fmt"
	"strings"
	"time"

	"droply/models"
)

const icalTimeLayout = "20060102T150405Z"

// GenerateICal renders a provider's time slots as an iCalendar document.
// All timestamps are emitted in UTC. Booked slots are CONFIRMED, open ones
// TENTATIVE.
func GenerateICal(slots []models.TimeSlot, owner models.User) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Droply//Calendar//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		fmt.Sprintf("X-WR-CALNAME:%s's Available Sessions", owner.FullName),
		"X-WR-TIMEZONE:UTC",
	}

	for _, slot := range slots {
		lines = append(lines,
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:slot-%s@droply.com", slot.ID),
			fmt.Sprintf("DTSTAMP:%s", slot.CreatedAt.UTC().Format(icalTimeLayout)),
			fmt.Sprintf("DTSTART:%s", slot.Start.UTC().Format(icalTimeLayout)),
			fmt.Sprintf("DTEND:%s", slot.End.UTC().Format(icalTimeLayout)),
			fmt.Sprintf("SUMMARY:%s", escapeICalText(slot.Title)),
		)
		if slot.Description != "" {
			lines = append(lines, fmt.Sprintf("DESCRIPTION:%s", escapeICalText(slot.Description)))
		}
		lines = append(lines,
			fmt.Sprintf("ORGANIZER:CN=%s:MAILTO:%s", owner.FullName, owner.Email),
		)
		if slot.IsAvailable {
			lines = append(lines, "STATUS:TENTATIVE")
		} else {
			lines = append(lines, "STATUS:CONFIRMED")
		}
		lines = append(lines, "TRANSP:OPAQUE")
		if slot.Price > 0 {
			lines = append(lines, fmt.Sprintf("X-PRICE:%.2f %s", slot.Price, owner.Currency))
		}
		lines = append(lines, "END:VEVENT")
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

// escapeICalText escapes the characters RFC 5545 requires in TEXT values.
func escapeICalText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}

// FormatSessionTime renders a UTC instant in the viewer's timezone for
// display. Falls back to UTC when the zone name is unknown.
func FormatSessionTime(t time.Time, tzName string) string {
	loc, err := time.LoadLocation(tzName)
	if err != nil || tzName == "" {
		loc = time.UTC
	}
	return t.In(loc).Format("January 2, 2006 at 3:04 PM MST")
}
