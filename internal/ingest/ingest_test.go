package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-space-backend/internal/course"
	"campus-space-backend/internal/source"
)

// fakeAdapter scripts one adapter's behaviour for a test.
type fakeAdapter struct {
	src     course.Source
	rows    []course.RawRow
	err     error
	calls   atomic.Int32
	blockOn chan struct{} // when set, Fetch waits here
}

func (f *fakeAdapter) Source() course.Source { return f.src }

func (f *fakeAdapter) Fetch(ctx context.Context) ([]course.RawRow, error) {
	f.calls.Add(1)
	if f.blockOn != nil {
		<-f.blockOn
	}
	return f.rows, f.err
}

func goodRows() []course.RawRow {
	return []course.RawRow{
		{Section: "002", CRN: "10001", Days: "TR", Times: "1:00 PM - 2:20 PM", Location: "KUPF 207"},
		{Section: "004", CRN: "10002", Days: "TF", Times: "10:00 AM - 11:20 AM", Location: "KUPF 103"},
	}
}

func TestRefresh_FirstAdapterWins(t *testing.T) {
	holder := course.NewHolder()
	auth := &fakeAdapter{src: course.SourceAuthenticated, rows: goodRows()}
	basic := &fakeAdapter{src: course.SourceBasic, rows: goodRows()}

	svc := NewService(holder, time.Hour, auth, basic)
	outcome, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, course.SourceAuthenticated, outcome.Source)
	assert.Equal(t, 2, outcome.Count)
	assert.Zero(t, basic.calls.Load(), "lower-ranked adapters must not run once one succeeds")

	snap := holder.Load()
	require.NotNil(t, snap)
	assert.Len(t, snap.Sections, 2)
	assert.Equal(t, course.SourceAuthenticated, snap.Source)
}

func TestRefresh_FallthroughOnErrorAndEmpty(t *testing.T) {
	holder := course.NewHolder()
	auth := &fakeAdapter{src: course.SourceAuthenticated, err: source.ErrNoCredentials}
	// Reached but only unusable rows: zero sections after normalization.
	basic := &fakeAdapter{src: course.SourceBasic, rows: []course.RawRow{
		{CRN: "CRN", Times: "Times", Location: "Location"},
		{CRN: "10003", Times: "TBA", Location: "KUPF 105"},
	}}
	static := &fakeAdapter{src: course.SourceSample, rows: goodRows()}

	svc := NewService(holder, time.Hour, auth, basic, static)
	outcome, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, course.SourceSample, outcome.Source)
	assert.EqualValues(t, 1, auth.calls.Load())
	assert.EqualValues(t, 1, basic.calls.Load())
	assert.EqualValues(t, 1, static.calls.Load())
	require.NotNil(t, holder.Load())
}

func TestRefresh_KeepsPreviousSnapshotOnTotalFailure(t *testing.T) {
	holder := course.NewHolder()
	previous := &course.Snapshot{
		Sections: []course.Section{{CRN: "10001", Location: "KUPF 207"}},
		Source:   course.SourceSample,
	}
	holder.Publish(previous)

	failing := &fakeAdapter{src: course.SourceBasic, err: errors.New("portal down")}
	svc := NewService(holder, time.Hour, failing)

	outcome, err := svc.Refresh(context.Background())
	assert.Error(t, err)
	assert.False(t, outcome.Success)
	assert.Same(t, previous, holder.Load(), "a failed cycle must not touch the live snapshot")
}

func TestRefresh_DropsBadRowsNotBatch(t *testing.T) {
	holder := course.NewHolder()
	rows := append(goodRows(), course.RawRow{CRN: "10009", Times: "not a time", Location: "CKB 304"})
	adapter := &fakeAdapter{src: course.SourceBasic, rows: rows}

	svc := NewService(holder, time.Hour, adapter)
	outcome, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Count)
}

func TestRefresh_CoalescesConcurrentCalls(t *testing.T) {
	holder := course.NewHolder()
	gate := make(chan struct{})
	slow := &fakeAdapter{src: course.SourceSample, rows: goodRows(), blockOn: gate}
	svc := NewService(holder, time.Hour, slow)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Refresh(context.Background())
		assert.NoError(t, err)
	}()

	// Wait until the first refresh is inside Fetch, then try a second one.
	require.Eventually(t, func() bool { return slow.calls.Load() == 1 }, time.Second, time.Millisecond)
	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshInFlight)

	close(gate)
	wg.Wait()
	assert.EqualValues(t, 1, slow.calls.Load())
}
