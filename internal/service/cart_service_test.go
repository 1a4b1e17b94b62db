package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapCartStorage struct {
	entries map[string][]byte
	lastTTL time.Duration
	failGet error
}

func newMapCartStorage() *mapCartStorage {
	return &mapCartStorage{entries: map[string][]byte{}}
}

func (s *mapCartStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.failGet != nil {
		return nil, false, s.failGet
	}
	raw, ok := s.entries[key]
	return raw, ok, nil
}

func (s *mapCartStorage) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.entries[key] = val
	s.lastTTL = ttl
	return nil
}

func (s *mapCartStorage) Delete(_ context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

func newCartFixture() (*CartService, *mapCartStorage) {
	storage := newMapCartStorage()
	return NewCartService(storage, time.Hour, zap.NewNop()), storage
}

func TestCartGetMissingIsEmpty(t *testing.T) {
	svc, _ := newCartFixture()

	items, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items, "empty cart must serialize as [] not null")
}

func TestCartSetGetRoundTrip(t *testing.T) {
	svc, storage := newCartFixture()
	ctx := context.Background()

	in := []CartItem{
		{MenuItemID: "item-burger", Quantity: 2},
		{MenuItemID: "item-fries", Quantity: 1},
	}
	require.NoError(t, svc.Set(ctx, "sess-1", in))
	assert.Equal(t, time.Hour, storage.lastTTL)

	items, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, in, items)
}

func TestCartKeysAreSessionScoped(t *testing.T) {
	svc, storage := newCartFixture()
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "sess-1", []CartItem{{MenuItemID: "item-burger", Quantity: 1}}))

	_, ok := storage.entries["cart:sess-1"]
	assert.True(t, ok)

	items, err := svc.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartSetEmptyDeletesRecord(t *testing.T) {
	svc, storage := newCartFixture()
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "sess-1", []CartItem{{MenuItemID: "item-burger", Quantity: 1}}))
	require.NoError(t, svc.Set(ctx, "sess-1", nil))

	assert.Empty(t, storage.entries)
}

func TestCartGetDropsMalformedEntries(t *testing.T) {
	svc, storage := newCartFixture()
	ctx := context.Background()

	raw, err := json.Marshal([]CartItem{
		{MenuItemID: "item-burger", Quantity: 2},
		{MenuItemID: "", Quantity: 3},
		{MenuItemID: "item-fries", Quantity: 0},
	})
	require.NoError(t, err)
	storage.entries["cart:sess-1"] = raw

	items, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-burger", items[0].MenuItemID)
}

func TestCartGetUnreadableRecordIsEmpty(t *testing.T) {
	svc, storage := newCartFixture()
	storage.entries["cart:sess-1"] = []byte("{not json")

	items, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartGetPropagatesBackendErrors(t *testing.T) {
	svc, storage := newCartFixture()
	storage.failGet = errors.New("redis down")

	_, err := svc.Get(context.Background(), "sess-1")
	assert.Error(t, err)
}
