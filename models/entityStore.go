package models

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/caretrackhq/assettrack_backend/config"
	"github.com/caretrackhq/assettrack_backend/utils"
	"github.com/go-playground/validator/v10"
)

// Dataset is the denormalized entity graph the whole engine reads from.
// It is loaded once from a single JSON document and cached in memory.
type Dataset struct {
	Assets           []Asset           `json:"assets" validate:"dive"`
	Departments      []Department      `json:"departments" validate:"dive"`
	Zones            []Zone            `json:"zones" validate:"dive"`
	Floors           []Floor           `json:"floors" validate:"dive"`
	Buildings        []Building        `json:"buildings" validate:"dive"`
	MovementLogs     []MovementLog     `json:"movementLogs" validate:"dive"`
	MaintenanceTasks []MaintenanceTask `json:"maintenanceTasks" validate:"dive"`
	GeofenceZones    []GeofenceZone    `json:"geofenceZones" validate:"dive"`
	Users            []User            `json:"users" validate:"dive"`
}

// EntityStore owns the dataset lifecycle: load on construct, explicit
// Invalidate/Reload for write endpoints, read-only snapshots for everything
// else. It is injected into every analytics component; there is no package
// global to import.
type EntityStore struct {
	path     string
	validate *validator.Validate

	mu       sync.RWMutex
	dataset  *Dataset
	index    *JoinIndex
	loadedAt time.Time
}

const reloadLockKey = "assettrack:dataset:reload"

// NewEntityStore loads the dataset file immediately and fails construction
// on a broken document: a store that cannot read its dataset has nothing to
// serve.
func NewEntityStore(path string) (*EntityStore, error) {
	s := &EntityStore{
		path:     path,
		validate: validator.New(),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewEntityStoreFromDataset wraps an in-memory dataset. Used by the seeder
// and by tests; Reload is a no-op without a backing file.
func NewEntityStoreFromDataset(ds *Dataset) *EntityStore {
	s := &EntityStore{validate: validator.New()}
	s.install(ds)
	return s
}

func (s *EntityStore) Load() error {
	if s.path == "" {
		return utils.ErrorDatasetNotLoaded
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		config.LogError(config.GetLogger(), "entityStore", "Load", "os.ReadFile", s.path, err)
		return fmt.Errorf("read dataset %s: %w", s.path, err)
	}

	var ds Dataset
	if err := utils.UnmarshalFromJSON(raw, &ds); err != nil {
		config.LogError(config.GetLogger(), "entityStore", "Load", "json.Unmarshal", s.path, err)
		return fmt.Errorf("decode dataset %s: %w", s.path, err)
	}

	if err := s.validate.Struct(&ds); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			config.LogError(config.GetLogger(), "entityStore", "Load", "validate", utils.ProcessValidationErrors(err), err)
		}
		return fmt.Errorf("validate dataset %s: %w", s.path, err)
	}

	s.install(&ds)
	return nil
}

func (s *EntityStore) install(ds *Dataset) {
	idx := NewJoinIndex(ds)
	s.mu.Lock()
	s.dataset = ds
	s.index = idx
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// Invalidate drops the cached dataset. The next Snapshot call fails until
// Reload runs; write endpoints call Reload directly instead.
func (s *EntityStore) Invalidate() {
	s.mu.Lock()
	s.dataset = nil
	s.index = nil
	s.mu.Unlock()
}

// Reload re-reads the dataset file. A best-effort Redis lock keeps
// concurrent invalidations from hammering the disk; when Redis is absent the
// reload simply proceeds unguarded (single-process deployments).
func (s *EntityStore) Reload(ctx context.Context) error {
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, reloadLockKey, 10*time.Second, nil)
		if err == nil {
			defer lock.Release(ctx)
		} else if err != redislock.ErrNotObtained {
			config.LogError(config.GetLogger(), "entityStore", "Reload", "redislock.Obtain", nil, err)
		}
	}
	return s.Load()
}

// Snapshot returns the cached dataset and its join index. Callers treat both
// as read-only for the life of the request.
func (s *EntityStore) Snapshot() (*Dataset, *JoinIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, nil, utils.ErrorDatasetNotLoaded
	}
	return s.dataset, s.index, nil
}

func (s *EntityStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// UpdateAssetStatus is the one mutation the store supports: the explicit
// status/lastActive action endpoint. It rebuilds the join index so readers
// never observe a stale lookup.
func (s *EntityStore) UpdateAssetStatus(id string, status AssetStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid asset status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return utils.ErrorDatasetNotLoaded
	}

	for i := range s.dataset.Assets {
		if s.dataset.Assets[i].Id == id {
			s.dataset.Assets[i].Status = status
			s.dataset.Assets[i].LastActive = time.Now()
			s.index = NewJoinIndex(s.dataset)
			return nil
		}
	}
	return utils.ErrorRecordNotFound
}
