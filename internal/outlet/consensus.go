// Package outlet reconciles hardware telemetry and crowdsourced reports
// into one authoritative outlet status. State transitions are pure
// functions over an Outlet value; persistence is the caller's job.
package outlet

import (
	"math"
	"time"

	"campus-space-backend/internal/model"
)

// maxReports bounds the report history; the oldest entries are dropped.
const maxReports = 10

// consensusWindow is how many of the newest reports vote on the status.
const consensusWindow = 3

// ApplyHardwareUpdate records a telemetry reading. Hardware is trusted
// unconditionally: it overrides whatever the report consensus last decided.
func ApplyHardwareUpdate(o model.Outlet, availablePorts int, now time.Time) model.Outlet {
	o.AvailablePorts = availablePorts
	if availablePorts > 0 {
		o.Status = model.OutletAvailable
	} else {
		o.Status = model.OutletOccupied
	}
	o.LastHardwareUpdate = &now
	return o
}

// AddReport appends a crowdsourced report, truncates the history to the
// newest ten entries, and re-derives the status once at least three reports
// exist. With fewer than three, the status is left as hardware or initial
// state set it.
func AddReport(o model.Outlet, userID string, status model.ReportStatus, comment string, now time.Time) model.Outlet {
	reports := make(model.ReportList, len(o.Reports), len(o.Reports)+1)
	copy(reports, o.Reports)
	reports = append(reports, model.Report{
		UserID:    userID,
		Status:    status,
		Comment:   comment,
		Timestamp: now,
	})
	if len(reports) > maxReports {
		reports = reports[len(reports)-maxReports:]
	}
	o.Reports = reports

	if len(reports) >= consensusWindow {
		o.Status = consensus(reports[len(reports)-consensusWindow:])
	}
	return o
}

// consensus tallies the window and picks the most reported value. Ties go
// to the status first encountered while scanning in chronological order.
func consensus(window model.ReportList) model.OutletStatus {
	counts := make(map[model.ReportStatus]int, consensusWindow)
	var order []model.ReportStatus
	for _, r := range window {
		if counts[r.Status] == 0 {
			order = append(order, r.Status)
		}
		counts[r.Status]++
	}

	winner := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[winner] {
			winner = s
		}
	}

	switch winner {
	case model.ReportBroken:
		return model.OutletOutOfService
	case model.ReportAvailable:
		return model.OutletAvailable
	default:
		return model.OutletOccupied
	}
}

// AvailabilityPercentage is the share of free ports, rounded to a whole
// percent. Outlets provisioned with zero ports report zero.
func AvailabilityPercentage(o model.Outlet) int {
	if o.TotalPorts == 0 {
		return 0
	}
	return int(math.Round(float64(o.AvailablePorts) / float64(o.TotalPorts) * 100))
}
