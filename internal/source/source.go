// Package source acquires raw course rows from the institutional portal.
// Adapters are ranked by the ingestion orchestrator: an authenticated portal
// session, an unauthenticated fetch of the same endpoint, and finally a
// bundled sample dataset that cannot fail.
package source

import (
	"context"
	"errors"

	"campus-space-backend/internal/course"
)

// Adapter is one strategy for acquiring raw course rows.
type Adapter interface {
	// Source tags snapshots built from this adapter's rows.
	Source() course.Source
	// Fetch returns at least one usable raw row or an error. Errors are
	// recoverable: the orchestrator falls through to the next adapter.
	Fetch(ctx context.Context) ([]course.RawRow, error)
}

var (
	// ErrNoCredentials means the authenticated adapter cannot run at all.
	ErrNoCredentials = errors.New("portal credentials not configured")
	// ErrNoUsableRows means the portal was reached but nothing parseable
	// came back from any extraction rule.
	ErrNoUsableRows = errors.New("no usable course rows extracted")
)
