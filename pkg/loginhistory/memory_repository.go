package loginhistory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLoginHistoryRepository implements LoginHistoryRepository with an
// in-memory slice. Used by tests and local demos.
type MemoryLoginHistoryRepository struct {
	mutex  sync.RWMutex
	events []LoginEvent
	now    func() time.Time
}

// NewMemoryLoginHistoryRepository creates a new in-memory login history
// repository.
func NewMemoryLoginHistoryRepository() *MemoryLoginHistoryRepository {
	return &MemoryLoginHistoryRepository{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the time source. Used by tests.
func (r *MemoryLoginHistoryRepository) WithNow(now func() time.Time) *MemoryLoginHistoryRepository {
	r.now = now
	return r
}

func (r *MemoryLoginHistoryRepository) Record(ctx context.Context, params RecordEventParams) (LoginEvent, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	event := LoginEvent{
		ID:         uuid.New(),
		Identity:   params.Identity,
		Browser:    params.Browser,
		OS:         params.OS,
		DeviceType: params.DeviceType,
		IPAddress:  params.IPAddress,
		CreatedAt:  r.now(),
	}
	r.events = append(r.events, event)

	return event, nil
}

func (r *MemoryLoginHistoryRepository) ListByIdentity(ctx context.Context, identity string, limit int) ([]LoginEvent, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	// Events append in order, so walking backwards yields newest first.
	var events []LoginEvent
	for i := len(r.events) - 1; i >= 0 && len(events) < limit; i-- {
		if r.events[i].Identity == identity {
			events = append(events, r.events[i])
		}
	}

	return events, nil
}
