package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"campus-space-backend/internal/availability"
)

// GetRoomAvailability handles the GET /api/rooms/availability request.
// States are recomputed from the live snapshot at each call; nothing here
// is memoized, so the answer always reflects the wall clock.
func (h *Handler) GetRoomAvailability(c *gin.Context) {
	states := availability.ComputeRoomStates(h.holder.Load(), time.Now())

	available := make([]availability.RoomState, 0, len(states))
	occupied := make([]availability.RoomState, 0)
	for _, st := range states {
		if st.IsAvailable {
			available = append(available, st)
		} else {
			occupied = append(occupied, st)
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i].Room < available[j].Room })
	sort.Slice(occupied, func(i, j int) bool { return occupied[i].Room < occupied[j].Room })

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"timestamp": time.Now().UTC(),
		"summary": gin.H{
			"total":     len(states),
			"available": len(available),
			"occupied":  len(occupied),
		},
		"availableRooms": available,
		"occupiedRooms":  occupied,
	})
}

// GetRoom handles the GET /api/rooms/{room} request for a single room.
func (h *Handler) GetRoom(c *gin.Context) {
	states := availability.ComputeRoomStates(h.holder.Load(), time.Now())

	room, ok := states[c.Param("room")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "room": room})
}

// buildingResponse groups the rooms that appear in the snapshot under
// their building prefix ("KUPF 207" → "KUPF").
type buildingResponse struct {
	Name      string   `json:"name"`
	Rooms     []string `json:"rooms"`
	RoomCount int      `json:"roomCount"`
}

// GetBuildings handles the GET /api/buildings request.
func (h *Handler) GetBuildings(c *gin.Context) {
	rooms := make(map[string]map[string]struct{})
	if snap := h.holder.Load(); snap != nil {
		for _, s := range snap.Sections {
			building, _, _ := strings.Cut(s.Location, " ")
			if rooms[building] == nil {
				rooms[building] = make(map[string]struct{})
			}
			rooms[building][s.Location] = struct{}{}
		}
	}

	buildings := make([]buildingResponse, 0, len(rooms))
	for name, set := range rooms {
		b := buildingResponse{Name: name, RoomCount: len(set)}
		for room := range set {
			b.Rooms = append(b.Rooms, room)
		}
		sort.Strings(b.Rooms)
		buildings = append(buildings, b)
	}
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].Name < buildings[j].Name })

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(buildings),
		"buildings": buildings,
	})
}
