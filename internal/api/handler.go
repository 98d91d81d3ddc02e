package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"campus-space-backend/internal/course"
	"campus-space-backend/internal/ingest"
	"campus-space-backend/internal/outlet"
	"campus-space-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	holder  *course.Holder
	ingest  *ingest.Service
	outlets *outlet.Service
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, holder *course.Holder, ing *ingest.Service, outlets *outlet.Service, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		holder:  holder,
		ingest:  ing,
		outlets: outlets,
		webpush: webpushOptions,
	}
}
