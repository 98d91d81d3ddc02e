package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-space-backend/internal/model"
	"campus-space-backend/internal/outlet"
	"campus-space-backend/internal/store"
)

// outletResponse is an outlet plus its derived availability percentage.
type outletResponse struct {
	model.Outlet
	AvailabilityPercentage int `json:"availabilityPercentage"`
}

func toOutletResponse(o model.Outlet) outletResponse {
	return outletResponse{Outlet: o, AvailabilityPercentage: outlet.AvailabilityPercentage(o)}
}

func toOutletResponses(outlets []model.Outlet) []outletResponse {
	out := make([]outletResponse, len(outlets))
	for i, o := range outlets {
		out[i] = toOutletResponse(o)
	}
	return out
}

// ListOutlets handles the GET /api/outlets request with optional
// building, floor, and status query filters.
func (h *Handler) ListOutlets(c *gin.Context) {
	var filter store.OutletFilter
	filter.Building = c.Query("building")
	filter.Status = model.OutletStatus(c.Query("status"))
	if raw := c.Query("floor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid floor"})
			return
		}
		filter.Floor = &floor
	}

	outlets, err := h.store.ListOutlets(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve outlets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(outlets),
		"data":    toOutletResponses(outlets),
	})
}

// GetAvailableOutlets handles the GET /api/outlets/available request.
func (h *Handler) GetAvailableOutlets(c *gin.Context) {
	outlets, err := h.store.ListAvailableOutlets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve available outlets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(outlets),
		"data":    toOutletResponses(outlets),
	})
}

// GetOutletsByLocation handles the GET /api/outlets/location/{building}/{floor} request.
func (h *Handler) GetOutletsByLocation(c *gin.Context) {
	floor, err := strconv.Atoi(c.Param("floor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid floor"})
		return
	}

	outlets, err := h.store.ListOutlets(c.Request.Context(), store.OutletFilter{
		Building: c.Param("building"),
		Floor:    &floor,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve outlets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(outlets),
		"data":    toOutletResponses(outlets),
	})
}

// GetOutlet handles the GET /api/outlets/{id} request.
func (h *Handler) GetOutlet(c *gin.Context) {
	o, err := h.store.GetOutlet(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Outlet not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve outlet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toOutletResponse(o)})
}

type createOutletRequest struct {
	OutletID   string `json:"outletId" binding:"required"`
	Building   string `json:"building" binding:"required"`
	Floor      int    `json:"floor"`
	Room       string `json:"room" binding:"required"`
	PortType   string `json:"type"`
	TotalPorts int    `json:"totalPorts" binding:"required,min=1"`
	HardwareID string `json:"hardwareId"`
	ReportedBy string `json:"reportedBy"`
	Notes      string `json:"notes"`
}

// CreateOutlet handles the POST /api/outlets request.
func (h *Handler) CreateOutlet(c *gin.Context) {
	var req createOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	o := model.Outlet{
		OutletID:       req.OutletID,
		Building:       req.Building,
		Floor:          req.Floor,
		Room:           req.Room,
		PortType:       req.PortType,
		TotalPorts:     req.TotalPorts,
		AvailablePorts: req.TotalPorts,
		Status:         model.OutletUnknown,
		HardwareID:     req.HardwareID,
		ReportedBy:     req.ReportedBy,
		Notes:          req.Notes,
		Reports:        model.ReportList{},
	}
	if o.PortType == "" {
		o.PortType = "standard"
	}

	if err := h.store.CreateOutlet(c.Request.Context(), &o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": toOutletResponse(o)})
}

type updateOutletRequest struct {
	Building   *string `json:"building"`
	Floor      *int    `json:"floor"`
	Room       *string `json:"room"`
	PortType   *string `json:"type"`
	TotalPorts *int    `json:"totalPorts"`
	IsVerified *bool   `json:"isVerified"`
	VerifiedBy *string `json:"verifiedBy"`
	Notes      *string `json:"notes"`
}

// UpdateOutlet handles the PUT /api/outlets/{id} request. Only the
// administrative fields can change; status and ports belong to the
// hardware-update and report flows.
func (h *Handler) UpdateOutlet(c *gin.Context) {
	var req updateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	o, err := h.store.GetOutlet(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Outlet not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve outlet"})
		return
	}

	if req.Building != nil {
		o.Building = *req.Building
	}
	if req.Floor != nil {
		o.Floor = *req.Floor
	}
	if req.Room != nil {
		o.Room = *req.Room
	}
	if req.PortType != nil {
		o.PortType = *req.PortType
	}
	if req.TotalPorts != nil {
		o.TotalPorts = *req.TotalPorts
	}
	if req.IsVerified != nil {
		o.IsVerified = *req.IsVerified
	}
	if req.VerifiedBy != nil {
		o.VerifiedBy = *req.VerifiedBy
	}
	if req.Notes != nil {
		o.Notes = *req.Notes
	}

	if err := h.store.SaveOutlet(c.Request.Context(), &o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toOutletResponse(o)})
}

// DeleteOutlet handles the DELETE /api/outlets/{id} request.
func (h *Handler) DeleteOutlet(c *gin.Context) {
	err := h.store.DeleteOutlet(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Outlet not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete outlet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Outlet deleted successfully"})
}

type hardwareUpdateRequest struct {
	AvailablePorts *int `json:"availablePorts" binding:"required"`
}

// PostHardwareUpdate handles the POST /api/outlets/{id}/hardware-update
// request from a telemetry source.
func (h *Handler) PostHardwareUpdate(c *gin.Context) {
	var req hardwareUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if *req.AvailablePorts < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "availablePorts must not be negative"})
		return
	}

	o, err := h.outlets.HardwareUpdate(c.Request.Context(), c.Param("id"), *req.AvailablePorts)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Outlet not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process hardware update"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toOutletResponse(o)})
}

type reportRequest struct {
	UserID  string             `json:"userId" binding:"required"`
	Status  model.ReportStatus `json:"status" binding:"required"`
	Comment string             `json:"comment"`
}

// PostReport handles the POST /api/outlets/{id}/report request with a
// crowdsourced observation.
func (h *Handler) PostReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !model.ValidReportStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be available, occupied, or broken"})
		return
	}

	o, err := h.outlets.AddUserReport(c.Request.Context(), c.Param("id"), req.UserID, req.Status, req.Comment)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Outlet not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toOutletResponse(o)})
}

// GetOutletStats handles the GET /api/outlets/stats/summary request.
func (h *Handler) GetOutletStats(c *gin.Context) {
	stats, err := h.store.OutletStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
