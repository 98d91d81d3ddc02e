package course

import (
	"sync/atomic"
	"time"
)

// Source identifies which adapter produced a snapshot.
type Source string

const (
	SourceAuthenticated Source = "authenticated"
	SourceBasic         Source = "basic"
	SourceSample        Source = "sample"
)

// RawRow is an unvalidated course row as extracted from a portal table or
// the bundled sample dataset. All fields are raw cell text.
type RawRow struct {
	Section     string `json:"section"`
	CRN         string `json:"crn"`
	Subject     string `json:"subject"`
	Course      string `json:"course"`
	Title       string `json:"title"`
	Days        string `json:"days"`
	Times       string `json:"times"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	MaxStudents string `json:"maxStudents"`
	Enrolled    string `json:"enrolled"`
	Instructor  string `json:"instructor"`
	Mode        string `json:"deliveryMode"`
}

// Section is a validated course section. Sections only enter a snapshot
// through Normalize, so location, time range, and CRN are always usable.
type Section struct {
	CRN          string `json:"crn"`
	Subject      string `json:"subject,omitempty"`
	Course       string `json:"course,omitempty"`
	SectionCode  string `json:"section"`
	Title        string `json:"title,omitempty"`
	Days         string `json:"days"`
	Times        string `json:"times"`
	StartMinutes int    `json:"startMinutes"`
	EndMinutes   int    `json:"endMinutes"`
	Location     string `json:"location"`
	Instructor   string `json:"instructor"`
	DeliveryMode string `json:"deliveryMode"`
	Status       string `json:"status"`
	MaxStudents  int    `json:"maxStudents"`
	Enrolled     int    `json:"enrolled"`
}

// Snapshot is the complete set of course sections currently considered
// authoritative, together with where and when it was obtained.
type Snapshot struct {
	Sections  []Section `json:"sections"`
	Source    Source    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Holder owns the live snapshot. The ingestion orchestrator is its only
// writer; query handlers read through Load. Replacement is a single pointer
// swap, so readers never observe a partially built set.
type Holder struct {
	p atomic.Pointer[Snapshot]
}

// NewHolder returns an empty holder. Load returns nil until the first
// successful refresh publishes a snapshot.
func NewHolder() *Holder {
	return &Holder{}
}

// Load returns the live snapshot, or nil if none has been published yet.
func (h *Holder) Load() *Snapshot {
	return h.p.Load()
}

// Publish atomically replaces the live snapshot.
func (h *Holder) Publish(s *Snapshot) {
	h.p.Store(s)
}
