package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OutletStatus is the authoritative state of a charging outlet. It is
// derived from hardware telemetry and report consensus, never set directly
// once enough reports exist.
type OutletStatus string

const (
	OutletAvailable    OutletStatus = "available"
	OutletOccupied     OutletStatus = "occupied"
	OutletOutOfService OutletStatus = "out-of-service"
	OutletUnknown      OutletStatus = "unknown"
)

// ReportStatus is what a user claims about an outlet.
type ReportStatus string

const (
	ReportAvailable ReportStatus = "available"
	ReportOccupied  ReportStatus = "occupied"
	ReportBroken    ReportStatus = "broken"
)

// ValidReportStatus reports whether s is one of the accepted report values.
func ValidReportStatus(s ReportStatus) bool {
	switch s {
	case ReportAvailable, ReportOccupied, ReportBroken:
		return true
	}
	return false
}

// Report is one crowdsourced observation of an outlet.
type Report struct {
	UserID    string       `json:"userId"`
	Status    ReportStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Comment   string       `json:"comment,omitempty"`
}

// ReportList is stored as a JSON column; the history is bounded to the ten
// most recent reports, so a dedicated table would be overkill.
type ReportList []Report

// Value implements driver.Valuer.
func (r ReportList) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *ReportList) Scan(value any) error {
	if value == nil {
		*r = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported report list column type %T", value)
	}
}

// Outlet is a charging outlet provisioned by an administrator.
type Outlet struct {
	OutletID       string       `gorm:"primaryKey;size:64" json:"outletId"`
	Building       string       `gorm:"size:128;not null;index:idx_outlets_location" json:"building"`
	Floor          int          `gorm:"not null;index:idx_outlets_location" json:"floor"`
	Room           string       `gorm:"size:64;not null" json:"room"`
	PortType       string       `gorm:"size:32;not null;default:standard" json:"type"`
	TotalPorts     int          `gorm:"not null" json:"totalPorts"`
	AvailablePorts int          `gorm:"not null" json:"availablePorts"`
	Status         OutletStatus `gorm:"size:32;not null;default:unknown;index" json:"status"`

	HardwareID         string     `gorm:"size:64;index" json:"hardwareId,omitempty"`
	LastHardwareUpdate *time.Time `json:"lastHardwareUpdate,omitempty"`

	Reports ReportList `gorm:"type:text" json:"reports"`

	IsVerified bool   `json:"isVerified"`
	ReportedBy string `gorm:"size:128" json:"reportedBy,omitempty"`
	VerifiedBy string `gorm:"size:128" json:"verifiedBy,omitempty"`
	Notes      string `json:"notes,omitempty"`

	UsageCount int        `json:"usageCount"`
	LastUsed   *time.Time `json:"lastUsed,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
