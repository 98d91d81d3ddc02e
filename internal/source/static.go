package source

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"campus-space-backend/internal/course"
)

//go:embed sample_courses.json
var sampleCoursesJSON []byte

// StaticAdapter serves the bundled sample dataset. It is the last adapter in
// the chain and never fails, so ingestion always terminates with some data.
type StaticAdapter struct {
	rows []course.RawRow
}

// NewStaticAdapter decodes the embedded dataset once, up front. A decode
// error here is a build defect, not a runtime condition, so the caller
// treats it as fatal at startup.
func NewStaticAdapter() (*StaticAdapter, error) {
	var rows []course.RawRow
	if err := json.Unmarshal(sampleCoursesJSON, &rows); err != nil {
		return nil, fmt.Errorf("embedded sample dataset is invalid: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("embedded sample dataset is empty")
	}
	return &StaticAdapter{rows: rows}, nil
}

func (s *StaticAdapter) Source() course.Source {
	return course.SourceSample
}

// Fetch returns a copy of the dataset so callers can never mutate the
// adapter's backing slice.
func (s *StaticAdapter) Fetch(_ context.Context) ([]course.RawRow, error) {
	out := make([]course.RawRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}
