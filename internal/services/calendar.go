package services

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	apperrors "prodash/internal/errors"
	"prodash/internal/models"
)

const (
	calendarProductID = "-//prodash//meeting export//EN"
	calendarLocation  = "Online"
	organizerName     = "Productivity Dashboard"
	organizerAddress  = "mailto:no-reply@prodash.app"
	defaultSummary    = "meeting"
)

// meetingUID is stable per meeting so re-imports update the same event.
func meetingUID(id uint) string {
	return fmt.Sprintf("meeting-%d@prodash", id)
}

// meetingCalendar builds a VCALENDAR holding a single VEVENT for m.
func meetingCalendar(m *models.MeetingSchedule) (string, error) {
	if m.StartTime.IsZero() || m.EndTime.IsZero() || m.EndTime.Before(m.StartTime) {
		return "", apperrors.Wrap(apperrors.ErrCalendarGeneration,
			fmt.Errorf("meeting %d has an invalid time range", m.ID))
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	summary := m.Title
	if summary == "" {
		summary = defaultSummary
	}

	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	event := cal.AddEvent(meetingUID(m.ID))
	event.SetCreatedTime(created.UTC())
	event.SetDtStampTime(created.UTC())
	event.SetStartAt(m.StartTime.UTC())
	event.SetEndAt(m.EndTime.UTC())
	event.SetSummary(summary)
	if m.Description != "" {
		event.SetDescription(m.Description)
	}
	event.SetLocation(calendarLocation)
	event.SetStatus(ics.ObjectStatusConfirmed)
	event.SetOrganizer(organizerAddress, ics.WithCN(organizerName))

	return cal.Serialize(), nil
}
