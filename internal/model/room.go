package model

import "time"

// Room is an administratively provisioned room record: metadata about the
// physical space, not its live occupancy. Occupancy is derived from the
// course snapshot at query time and never persisted.
type Room struct {
	RoomNumber  string `gorm:"primaryKey;size:64" json:"roomNumber"`
	Building    string `gorm:"size:128;not null;index:idx_rooms_location" json:"building"`
	Floor       int    `gorm:"not null;index:idx_rooms_location" json:"floor"`
	Name        string `gorm:"size:256" json:"name,omitempty"`
	Capacity    int    `json:"capacity"`
	RoomType    string `gorm:"size:32;not null;default:classroom" json:"type"`
	OutletCount int    `json:"outletCount"`
	IsVerified  bool   `json:"isVerified"`
	Notes       string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
