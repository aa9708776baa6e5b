package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryAccountRepository implements AccountRepository with an in-memory map.
// Used by tests and local demos.
type MemoryAccountRepository struct {
	mutex    sync.RWMutex
	accounts map[uuid.UUID]Account
}

// NewMemoryAccountRepository creates a new in-memory account repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[uuid.UUID]Account),
	}
}

func (r *MemoryAccountRepository) Create(ctx context.Context, params CreateAccountParams) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == params.Email {
			return Account{}, ErrEmailTaken
		}
	}

	language := params.PreferredLanguage
	if language == "" {
		language = LangEnglish
	}

	account := Account{
		ID:                uuid.New(),
		Email:             params.Email,
		Name:              params.Name,
		PasswordHash:      params.PasswordHash,
		PreferredLanguage: language,
		CreatedAt:         time.Now().UTC(),
	}
	r.accounts[account.ID] = account

	return account, nil
}

func (r *MemoryAccountRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, account := range r.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (r *MemoryAccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, resetAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}

	account.PasswordHash = passwordHash
	account.LastPasswordResetAt = &resetAt
	r.accounts[id] = account
	return nil
}

func (r *MemoryAccountRepository) UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}

	account.PreferredLanguage = language
	r.accounts[id] = account
	return nil
}
