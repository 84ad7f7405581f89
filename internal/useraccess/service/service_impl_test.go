package service

import (
	"context"
	"errors"
	"testing"

	"github.com/costvista/billquest/internal/blob"
	useraccessdomain "github.com/costvista/billquest/internal/useraccess/domain"
	useraccessrepository "github.com/costvista/billquest/internal/useraccess/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupUserAccess(t *testing.T) (useraccessdomain.Service, *blob.MemoryStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&useraccessdomain.UserAccessMapping{}))

	store := blob.NewMemoryStore()
	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Blob: store,
		Repo: useraccessrepository.Provide(),
	})
	return svc, store
}

func TestProcessFileMapsEmails(t *testing.T) {
	svc, store := setupUserAccess(t)
	data := "email,payer_account_id\n" +
		"alice@example.com,111;222\n" +
		"bob@example.com,333\n"
	store.Put("mappings", "access.csv", []byte(data))

	result, err := svc.ProcessFile(context.Background(), "mappings", "access.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Zero(t, result.Skipped)
	assert.Equal(t, 2, result.Total)

	lookup, err := svc.Lookup(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", lookup.Email)
	assert.Equal(t, []string{"111", "222"}, lookup.PayerAccountIDs)
}

func TestProcessFileSkipsInvalidRows(t *testing.T) {
	svc, store := setupUserAccess(t)
	data := "email,payer_account_id\n" +
		"alice@example.com,111\n" +
		",222\n" +
		"no-at-sign,333\n" +
		"carol@example.com,\n"
	store.Put("mappings", "access.csv", []byte(data))

	result, err := svc.ProcessFile(context.Background(), "mappings", "access.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 4, result.Total)

	_, err = svc.Lookup(context.Background(), "carol@example.com")
	assert.True(t, errors.Is(err, useraccessdomain.ErrNotFound))
}

func TestProcessFileTrimsListEntries(t *testing.T) {
	svc, store := setupUserAccess(t)
	data := "email,payer_account_id\nalice@example.com, 111 ; 222 \n"
	store.Put("mappings", "access.csv", []byte(data))

	_, err := svc.ProcessFile(context.Background(), "mappings", "access.csv")
	require.NoError(t, err)

	lookup, err := svc.Lookup(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, lookup.PayerAccountIDs)
}

func TestProcessFileReplacesExistingMapping(t *testing.T) {
	svc, store := setupUserAccess(t)
	store.Put("mappings", "v1.csv", []byte("email,payer_account_id\nalice@example.com,111;222\n"))
	store.Put("mappings", "v2.csv", []byte("email,payer_account_id\nalice@example.com,333\n"))

	_, err := svc.ProcessFile(context.Background(), "mappings", "v1.csv")
	require.NoError(t, err)
	_, err = svc.ProcessFile(context.Background(), "mappings", "v2.csv")
	require.NoError(t, err)

	lookup, err := svc.Lookup(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"333"}, lookup.PayerAccountIDs)
}

func TestProcessFileMissingObject(t *testing.T) {
	svc, _ := setupUserAccess(t)

	_, err := svc.ProcessFile(context.Background(), "mappings", "absent.csv")
	assert.True(t, errors.Is(err, useraccessdomain.ErrNotFound))
}

func TestLookupUnknownEmail(t *testing.T) {
	svc, _ := setupUserAccess(t)

	_, err := svc.Lookup(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, useraccessdomain.ErrNotFound))
}
