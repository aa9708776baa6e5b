package otp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryOtpRepository implements OtpRepository with an in-memory map. Both
// operations run under one lock, so the replace and consume sequences are as
// atomic as their SQL counterparts. Used by tests and local demos.
type MemoryOtpRepository struct {
	mutex sync.Mutex
	codes map[uuid.UUID]CodeEntity
}

// NewMemoryOtpRepository creates a new in-memory code repository.
func NewMemoryOtpRepository() *MemoryOtpRepository {
	return &MemoryOtpRepository{
		codes: make(map[uuid.UUID]CodeEntity),
	}
}

// Replace deletes unused codes for the scope and stores the new one.
func (r *MemoryOtpRepository) Replace(ctx context.Context, params ReplaceCodeParams) (CodeEntity, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, code := range r.codes {
		if code.Identity == params.Identity && code.Purpose == params.Purpose && !code.Used {
			delete(r.codes, id)
		}
	}

	entity := CodeEntity{
		ID:        uuid.New(),
		Identity:  params.Identity,
		Purpose:   params.Purpose,
		Code:      params.Code,
		Used:      false,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: params.ExpiresAt,
	}
	r.codes[entity.ID] = entity

	return entity, nil
}

// Consume marks the most recent matching unused, non-expired code as used.
func (r *MemoryOtpRepository) Consume(ctx context.Context, params ConsumeCodeParams) (CodeEntity, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var (
		found   bool
		matchID uuid.UUID
		match   CodeEntity
	)
	for id, code := range r.codes {
		if code.Identity != params.Identity ||
			code.Purpose != params.Purpose ||
			code.Code != params.Code ||
			code.Used {
			continue
		}
		// Strict comparison: a code is dead at exactly its expiry instant.
		if !code.ExpiresAt.After(params.Now) {
			continue
		}
		if !found || code.CreatedAt.After(match.CreatedAt) {
			found = true
			matchID = id
			match = code
		}
	}

	if !found {
		return CodeEntity{}, ErrCodeNotFound
	}

	match.Used = true
	r.codes[matchID] = match

	return match, nil
}
