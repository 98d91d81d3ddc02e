package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campus-space-backend/internal/model"
)

// ErrNotFound is returned when an identity does not exist in the store.
var ErrNotFound = errors.New("not found")

// OutletFilter narrows an outlet listing. Zero values mean "any".
type OutletFilter struct {
	Building string
	Floor    *int
	Status   model.OutletStatus
}

// BuildingStats is the per-building slice of the stats summary.
type BuildingStats struct {
	Building  string `json:"building"`
	Count     int64  `json:"count"`
	Available int64  `json:"available"`
}

// OutletStats summarizes the outlet inventory.
type OutletStats struct {
	Total        int64           `json:"total"`
	Available    int64           `json:"available"`
	Occupied     int64           `json:"occupied"`
	OutOfService int64           `json:"outOfService"`
	ByBuilding   []BuildingStats `json:"byBuilding"`
}

// Store defines the persistence operations for outlets and rooms.
type Store interface {
	GetOutlet(ctx context.Context, id string) (model.Outlet, error)
	ListOutlets(ctx context.Context, f OutletFilter) ([]model.Outlet, error)
	ListAvailableOutlets(ctx context.Context) ([]model.Outlet, error)
	CreateOutlet(ctx context.Context, o *model.Outlet) error
	SaveOutlet(ctx context.Context, o *model.Outlet) error
	DeleteOutlet(ctx context.Context, id string) error
	OutletStats(ctx context.Context) (OutletStats, error)

	ListRooms(ctx context.Context, building string) ([]model.Room, error)
	UpsertRoom(ctx context.Context, r *model.Room) error

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) GetOutlet(ctx context.Context, id string) (model.Outlet, error) {
	var o model.Outlet
	err := s.db.WithContext(ctx).First(&o, "outlet_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Outlet{}, fmt.Errorf("outlet %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Outlet{}, fmt.Errorf("failed to load outlet %q: %w", id, err)
	}
	return o, nil
}

func (s *gormStore) ListOutlets(ctx context.Context, f OutletFilter) ([]model.Outlet, error) {
	q := s.db.WithContext(ctx).Model(&model.Outlet{})
	if f.Building != "" {
		q = q.Where("building = ?", f.Building)
	}
	if f.Floor != nil {
		q = q.Where("floor = ?", *f.Floor)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var outlets []model.Outlet
	if err := q.Order("building, floor, room").Find(&outlets).Error; err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}
	return outlets, nil
}

// ListAvailableOutlets returns available outlets with free ports, the ones
// with the most free ports first.
func (s *gormStore) ListAvailableOutlets(ctx context.Context) ([]model.Outlet, error) {
	var outlets []model.Outlet
	err := s.db.WithContext(ctx).
		Where("status = ? AND available_ports > 0", model.OutletAvailable).
		Order("available_ports DESC").
		Find(&outlets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available outlets: %w", err)
	}
	return outlets, nil
}

func (s *gormStore) CreateOutlet(ctx context.Context, o *model.Outlet) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create outlet %q: %w", o.OutletID, err)
	}
	return nil
}

func (s *gormStore) SaveOutlet(ctx context.Context, o *model.Outlet) error {
	if err := s.db.WithContext(ctx).Save(o).Error; err != nil {
		return fmt.Errorf("failed to save outlet %q: %w", o.OutletID, err)
	}
	return nil
}

func (s *gormStore) DeleteOutlet(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Outlet{}, "outlet_id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete outlet %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("outlet %q: %w", id, ErrNotFound)
	}
	return nil
}

// OutletStats aggregates counts overall and per building in two queries.
func (s *gormStore) OutletStats(ctx context.Context) (OutletStats, error) {
	type statusRow struct {
		Status model.OutletStatus
		Count  int64
	}
	var byStatus []statusRow
	err := s.db.WithContext(ctx).
		Model(&model.Outlet{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return OutletStats{}, fmt.Errorf("failed to aggregate outlet statuses: %w", err)
	}

	var stats OutletStats
	for _, row := range byStatus {
		stats.Total += row.Count
		switch row.Status {
		case model.OutletAvailable:
			stats.Available = row.Count
		case model.OutletOccupied:
			stats.Occupied = row.Count
		case model.OutletOutOfService:
			stats.OutOfService = row.Count
		}
	}

	err = s.db.WithContext(ctx).
		Model(&model.Outlet{}).
		Select("building, COUNT(*) as count, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as available", model.OutletAvailable).
		Group("building").
		Order("building").
		Scan(&stats.ByBuilding).Error
	if err != nil {
		return OutletStats{}, fmt.Errorf("failed to aggregate outlets by building: %w", err)
	}

	return stats, nil
}

func (s *gormStore) ListRooms(ctx context.Context, building string) ([]model.Room, error) {
	q := s.db.WithContext(ctx).Model(&model.Room{})
	if building != "" {
		q = q.Where("building = ?", building)
	}

	var rooms []model.Room
	if err := q.Order("building, floor, room_number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) UpsertRoom(ctx context.Context, r *model.Room) error {
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return fmt.Errorf("failed to save room %q: %w", r.RoomNumber, err)
	}
	return nil
}
