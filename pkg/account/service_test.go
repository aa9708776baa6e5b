package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeLanguage(t *testing.T) {
	repo := NewMemoryAccountRepository()
	service := NewAccountService(repo)
	ctx := context.Background()

	acct, err := repo.Create(ctx, CreateAccountParams{
		Email:        "dev@example.com",
		Name:         "Dev",
		PasswordHash: "irrelevant",
	})
	require.NoError(t, err)
	assert.Equal(t, LangEnglish, acct.PreferredLanguage, "accounts default to English")

	require.NoError(t, service.ChangeLanguage(ctx, "dev@example.com", LangHindi))
	updated, err := service.GetByEmail(ctx, "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, LangHindi, updated.PreferredLanguage)
}

func TestChangeLanguageRejectsUnknownCode(t *testing.T) {
	repo := NewMemoryAccountRepository()
	service := NewAccountService(repo)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateAccountParams{
		Email:        "dev@example.com",
		Name:         "Dev",
		PasswordHash: "irrelevant",
	})
	require.NoError(t, err)

	err = service.ChangeLanguage(ctx, "dev@example.com", "xx")
	assert.ErrorIs(t, err, ErrInvalidLanguage)

	unchanged, err := service.GetByEmail(ctx, "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, LangEnglish, unchanged.PreferredLanguage)
}

func TestChangeLanguageUnknownAccount(t *testing.T) {
	service := NewAccountService(NewMemoryAccountRepository())

	err := service.ChangeLanguage(context.Background(), "nobody@example.com", LangFrench)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateAccountParams{Email: "dev@example.com", Name: "Dev", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateAccountParams{Email: "dev@example.com", Name: "Other", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}
