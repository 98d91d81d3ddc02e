// Package availability derives per-room occupancy from the live course
// snapshot. Everything here is pure: results depend only on the snapshot
// and the instant passed in, and nothing is cached between calls.
package availability

import (
	"sort"
	"strings"
	"time"

	"campus-space-backend/internal/course"
)

// dayCodes is the weekday alphabet used in schedule day strings. Every code
// is a single symbol, so substring containment cannot mismatch: Thursday is
// R, Saturday is S, Sunday is U.
var dayCodes = map[time.Weekday]string{
	time.Sunday:    "U",
	time.Monday:    "M",
	time.Tuesday:   "T",
	time.Wednesday: "W",
	time.Thursday:  "R",
	time.Friday:    "F",
	time.Saturday:  "S",
}

// DayCode returns the schedule symbol for a weekday.
func DayCode(d time.Weekday) string {
	return dayCodes[d]
}

// RoomState is the point-in-time occupancy view of a single room.
type RoomState struct {
	Room         string           `json:"room"`
	IsAvailable  bool             `json:"isAvailable"`
	CurrentClass *course.Section  `json:"currentClass"`
	NextClass    *course.Section  `json:"nextClass"`
	Schedule     []course.Section `json:"schedule"`
}

// ComputeRoomStates evaluates every room in the snapshot at the given
// instant. A room is occupied when some section meets today and its range
// contains the current minute, boundaries included. With overlapping
// sections the earliest-starting one is reported; that is deliberate, not
// an error. NextClass only looks at the rest of today.
func ComputeRoomStates(snap *course.Snapshot, now time.Time) map[string]RoomState {
	states := make(map[string]RoomState)
	if snap == nil {
		return states
	}

	byRoom := make(map[string][]course.Section)
	for _, s := range snap.Sections {
		byRoom[s.Location] = append(byRoom[s.Location], s)
	}

	day := DayCode(now.Weekday())
	nowMinutes := now.Hour()*60 + now.Minute()

	for room, sections := range byRoom {
		sort.SliceStable(sections, func(i, j int) bool {
			return sections[i].StartMinutes < sections[j].StartMinutes
		})

		state := RoomState{
			Room:        room,
			IsAvailable: true,
			Schedule:    sections,
		}

		for i := range sections {
			s := &sections[i]
			if !meetsOn(s, day) {
				continue
			}
			if state.CurrentClass == nil && s.StartMinutes <= nowMinutes && nowMinutes <= s.EndMinutes {
				state.IsAvailable = false
				state.CurrentClass = s
			}
			if state.NextClass == nil && s.StartMinutes > nowMinutes {
				state.NextClass = s
			}
		}

		states[room] = state
	}

	return states
}

func meetsOn(s *course.Section, dayCode string) bool {
	return strings.Contains(s.Days, dayCode)
}
