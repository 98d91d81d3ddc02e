// Package ingest runs the course-data acquisition pipeline: adapters are
// tried in rank order and the first usable result becomes the live snapshot.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"campus-space-backend/internal/course"
	"campus-space-backend/internal/source"
)

// ErrRefreshInFlight is returned when a refresh request arrives while a
// cycle is already running. Callers should treat the running cycle's result
// as their own rather than racing a second one.
var ErrRefreshInFlight = errors.New("a refresh is already in flight")

// Outcome summarizes one refresh cycle for callers.
type Outcome struct {
	Success bool          `json:"success"`
	Source  course.Source `json:"source,omitempty"`
	Count   int           `json:"count"`
}

// Service is the only writer of the live course snapshot.
type Service struct {
	adapters []source.Adapter
	holder   *course.Holder
	interval time.Duration

	refreshing atomic.Bool
}

// NewService wires the ranked adapter chain to the snapshot holder. The last
// adapter is expected to be the static fallback, which cannot fail.
func NewService(holder *course.Holder, interval time.Duration, adapters ...source.Adapter) *Service {
	return &Service{
		adapters: adapters,
		holder:   holder,
		interval: interval,
	}
}

// Refresh tries each adapter in order and publishes a new snapshot from the
// first one whose rows survive normalization. Adapter errors and empty
// results both trigger fallthrough. On total failure the previous snapshot
// is left untouched; with the static fallback in the chain that cannot
// happen in practice.
func (s *Service) Refresh(ctx context.Context) (Outcome, error) {
	if !s.refreshing.CompareAndSwap(false, true) {
		return Outcome{}, ErrRefreshInFlight
	}
	defer s.refreshing.Store(false)

	log.Println("refresh: starting course data refresh")

	for _, adapter := range s.adapters {
		rows, err := adapter.Fetch(ctx)
		if err != nil {
			log.Printf("refresh: %s source failed: %v", adapter.Source(), err)
			continue
		}

		sections, dropped := course.NormalizeAll(rows)
		if dropped > 0 {
			log.Printf("refresh: %s source: dropped %d unusable rows", adapter.Source(), dropped)
		}
		if len(sections) == 0 {
			log.Printf("refresh: %s source produced no usable sections", adapter.Source())
			continue
		}

		snap := &course.Snapshot{
			Sections:  sections,
			Source:    adapter.Source(),
			FetchedAt: time.Now().UTC(),
		}
		s.holder.Publish(snap)

		log.Printf("refresh: published %d sections from %s source", len(sections), snap.Source)
		return Outcome{Success: true, Source: snap.Source, Count: len(sections)}, nil
	}

	return Outcome{}, fmt.Errorf("all course sources failed")
}

// Run performs an immediate refresh and then repeats on the configured
// interval until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInFlight) {
		log.Printf("refresh: initial cycle failed: %v", err)
	}

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("refresh: scheduler shutting down")
			return
		case <-timer.C:
			if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInFlight) {
				log.Printf("refresh: scheduled cycle failed: %v", err)
			}
			timer.Reset(s.interval)
		}
	}
}
