package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"

	"campus-space-backend/internal/availability"
	"campus-space-backend/internal/course"
)

// byDay maps schedule day symbols to iCalendar BYDAY codes.
var byDay = map[byte]string{
	'M': "MO",
	'T': "TU",
	'W': "WE",
	'R': "TH",
	'F': "FR",
	'S': "SA",
	'U': "SU",
}

var icsWeekdays = map[byte]time.Weekday{
	'M': time.Monday,
	'T': time.Tuesday,
	'W': time.Wednesday,
	'R': time.Thursday,
	'F': time.Friday,
	'S': time.Saturday,
	'U': time.Sunday,
}

// GetRoomScheduleICS handles the GET /api/rooms/{room}/schedule.ics
// request, rendering a room's weekly schedule as an iCalendar feed with
// one weekly recurring event per section.
func (h *Handler) GetRoomScheduleICS(c *gin.Context) {
	states := availability.ComputeRoomStates(h.holder.Load(), time.Now())

	room, ok := states[c.Param("room")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Room not found"})
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//campus-space//room-schedule//EN")

	now := time.Now()
	for _, s := range room.Schedule {
		ev := cal.AddEvent(fmt.Sprintf("%s-%s@campus-space", s.CRN, s.SectionCode))
		ev.SetDtStampTime(now.UTC())
		ev.SetSummary(sectionSummary(s))
		ev.SetLocation(s.Location)
		if s.Instructor != "" {
			ev.SetDescription("Instructor: " + s.Instructor)
		}

		start, end := firstMeeting(s, now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		if days := byDayList(s.Days); days != "" {
			ev.AddRrule("FREQ=WEEKLY;BYDAY=" + days)
		}
	}

	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}

func sectionSummary(s course.Section) string {
	if s.Subject != "" && s.Course != "" {
		return fmt.Sprintf("%s %s (%s)", s.Subject, s.Course, s.CRN)
	}
	if s.Title != "" {
		return s.Title
	}
	return "CRN " + s.CRN
}

// firstMeeting returns the section's next occurrence on or after now.
func firstMeeting(s course.Section, now time.Time) (time.Time, time.Time) {
	dayAt := func(base time.Time, minutes int) time.Time {
		return time.Date(base.Year(), base.Month(), base.Day(), minutes/60, minutes%60, 0, 0, base.Location())
	}

	for offset := 0; offset < 7; offset++ {
		day := now.AddDate(0, 0, offset)
		for i := 0; i < len(s.Days); i++ {
			wd, ok := icsWeekdays[s.Days[i]]
			if !ok || wd != day.Weekday() {
				continue
			}
			start := dayAt(day, s.StartMinutes)
			if offset == 0 && start.Before(now) {
				continue
			}
			return start, dayAt(day, s.EndMinutes)
		}
	}

	// Unreachable for sections with a valid day string; fall back to today.
	return dayAt(now, s.StartMinutes), dayAt(now, s.EndMinutes)
}

func byDayList(days string) string {
	var codes []string
	for i := 0; i < len(days); i++ {
		if code, ok := byDay[days[i]]; ok {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, ",")
}
