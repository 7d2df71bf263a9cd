// Package ics serializes appointments into iCalendar text: a single-event
// invite attached to the confirmation email, a matching cancellation
// notice, and a read-only multi-event feed for calendar subscriptions.
package ics

import (
	"fmt"
	"strings"
	"time"

	"bookable/backend/internal/domain"
	"bookable/backend/internal/timeutil"
)

const (
	prodID       = "-//Bookable//Afspraken//NL"
	feedTimezone = "Europe/Amsterdam"

	methodRequest = "REQUEST"
	methodCancel  = "CANCEL"
	methodPublish = "PUBLISH"
)

type Generator struct {
	clock timeutil.Clock
}

func NewGenerator(clock timeutil.Clock) *Generator {
	return &Generator{clock: clock}
}

// Generate renders a new-event invite. Regenerating for the same
// appointment yields the same UID, so calendar clients treat resends as
// the same event rather than duplicates.
func (g *Generator) Generate(appt domain.Appointment) (string, error) {
	event, err := g.eventLines(appt, 0, "CONFIRMED", summary(appt))
	if err != nil {
		return "", err
	}
	return g.wrap(methodRequest, nil, event), nil
}

// GenerateCancellation renders the cancellation notice for a previously
// sent invite. It carries the invite's UID with the sequence bumped to 1,
// which is what tells the recipient's client to retract the event.
func (g *Generator) GenerateCancellation(appt domain.Appointment) (string, error) {
	event, err := g.eventLines(appt, 1, "CANCELLED", "Geannuleerd: "+summary(appt))
	if err != nil {
		return "", err
	}
	return g.wrap(methodCancel, nil, event), nil
}

// GenerateFeed renders all given appointments as one published calendar.
// An empty appointment list still produces a valid, empty calendar.
func (g *Generator) GenerateFeed(name string, appts []domain.Appointment) (string, error) {
	header := []string{
		"X-WR-CALNAME:" + escapeText(name),
		"X-WR-TIMEZONE:" + feedTimezone,
	}

	var events []string
	for _, appt := range appts {
		status := "CONFIRMED"
		if appt.Status == domain.AppointmentStatusCancelled {
			status = "CANCELLED"
		}
		event, err := g.eventLines(appt, 0, status, summary(appt))
		if err != nil {
			return "", err
		}
		events = append(events, event...)
	}

	return g.wrap(methodPublish, header, events), nil
}

// AttachmentFilename derives the .ics attachment name from the
// appointment date, e.g. "afspraak-2026-01-12.ics".
func AttachmentFilename(date string) string {
	return fmt.Sprintf("afspraak-%s.ics", date)
}

func (g *Generator) wrap(method string, header, events []string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:" + method,
	}
	lines = append(lines, header...)
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func (g *Generator) eventLines(appt domain.Appointment, sequence int, status, summary string) ([]string, error) {
	start, end, err := eventWindow(appt)
	if err != nil {
		return nil, err
	}

	dtstamp := g.clock.Now().UTC().Format("20060102T150405Z")

	return []string{
		"BEGIN:VEVENT",
		"UID:" + eventUID(appt),
		"DTSTAMP:" + dtstamp,
		"DTSTART;TZID=" + feedTimezone + ":" + start,
		"DTEND;TZID=" + feedTimezone + ":" + end,
		"SUMMARY:" + escapeText(summary),
		"DESCRIPTION:" + escapeText(description(appt)),
		"STATUS:" + status,
		fmt.Sprintf("SEQUENCE:%d", sequence),
		"END:VEVENT",
	}, nil
}

// eventUID is a stable function of the appointment id only, shared by the
// invite and its cancellation.
func eventUID(appt domain.Appointment) string {
	return fmt.Sprintf("appointment-%s@bookable", appt.ID)
}

func summary(appt domain.Appointment) string {
	return "Afspraak: " + appt.Name
}

func description(appt domain.Appointment) string {
	parts := []string{
		"Datum: " + timeutil.FormatDisplayDate(appt.Date) + " om " + appt.Time,
		"Naam: " + appt.Name,
		"E-mail: " + appt.Email,
		"Telefoon: " + appt.Phone,
	}
	if appt.PostalCode != "" {
		parts = append(parts, "Postcode: "+appt.PostalCode)
	}
	if appt.Remarks != nil && *appt.Remarks != "" {
		parts = append(parts, "Opmerkingen: "+*appt.Remarks)
	}
	return strings.Join(parts, "\n")
}

// eventWindow turns the stored date, start time, and duration into
// DTSTART/DTEND values, rolling DTEND over to the next day when the slot
// runs past midnight.
func eventWindow(appt domain.Appointment) (string, string, error) {
	startMinutes, err := timeutil.TimeToMinutes(appt.Time)
	if err != nil {
		return "", "", fmt.Errorf("invalid appointment time %q: %w", appt.Time, err)
	}
	if appt.DurationMinutes <= 0 {
		return "", "", fmt.Errorf("invalid duration %d", appt.DurationMinutes)
	}

	endDate := appt.Date
	endMinutes := startMinutes + appt.DurationMinutes
	if endMinutes >= 24*60 {
		endMinutes -= 24 * 60
		day, err := timeutil.ParseDate(appt.Date, time.UTC)
		if err != nil {
			return "", "", fmt.Errorf("invalid appointment date %q: %w", appt.Date, err)
		}
		endDate = day.AddDate(0, 0, 1).Format(timeutil.DateLayout)
	}

	start := icsLocalTime(appt.Date, appt.Time)
	end := icsLocalTime(endDate, timeutil.MinutesToTime(endMinutes))
	return start, end, nil
}

func icsLocalTime(date, clock string) string {
	return strings.ReplaceAll(date, "-", "") + "T" + strings.ReplaceAll(clock, ":", "") + "00"
}

// escapeText escapes the four characters iCalendar reserves in text
// values: backslash, semicolon, comma, and newline.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
