package outlet

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"campus-space-backend/internal/model"
	"campus-space-backend/internal/notification"
	"campus-space-backend/internal/store"
)

// lockStripes is the number of mutexes serializing outlet mutations.
// Updates to the same outlet always hash to the same stripe, so two
// concurrent reports for one outlet can never lose each other's history.
const lockStripes = 64

// Service applies outlet events: load, transition, persist, in that order,
// under the outlet's stripe lock. Distinct outlets proceed in parallel.
type Service struct {
	store      store.Store
	workerPool *notification.WorkerPool
	locks      [lockStripes]sync.Mutex
}

// NewService creates the outlet event service. The worker pool may be nil
// when push notifications are not configured.
func NewService(s store.Store, pool *notification.WorkerPool) *Service {
	return &Service{store: s, workerPool: pool}
}

func (s *Service) lockFor(outletID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(outletID))
	return &s.locks[h.Sum32()%lockStripes]
}

// HardwareUpdate records a telemetry reading and persists the result.
func (s *Service) HardwareUpdate(ctx context.Context, outletID string, availablePorts int) (model.Outlet, error) {
	return s.apply(ctx, outletID, func(o model.Outlet) model.Outlet {
		return ApplyHardwareUpdate(o, availablePorts, time.Now().UTC())
	})
}

// AddUserReport records a crowdsourced report and persists the result.
func (s *Service) AddUserReport(ctx context.Context, outletID, userID string, status model.ReportStatus, comment string) (model.Outlet, error) {
	return s.apply(ctx, outletID, func(o model.Outlet) model.Outlet {
		return AddReport(o, userID, status, comment, time.Now().UTC())
	})
}

// apply runs one state transition under the outlet's lock. If the
// transition flips the outlet to available, subscribers are notified.
func (s *Service) apply(ctx context.Context, outletID string, transition func(model.Outlet) model.Outlet) (model.Outlet, error) {
	mu := s.lockFor(outletID)
	mu.Lock()
	defer mu.Unlock()

	o, err := s.store.GetOutlet(ctx, outletID)
	if err != nil {
		return model.Outlet{}, err
	}

	wasAvailable := o.Status == model.OutletAvailable
	o = transition(o)

	if err := s.store.SaveOutlet(ctx, &o); err != nil {
		return model.Outlet{}, err
	}

	if !wasAvailable && o.Status == model.OutletAvailable && s.workerPool != nil {
		s.workerPool.Dispatch(o.OutletID)
	}

	return o, nil
}
