package uptime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/store/memory"
)

func TestRecordStore_MissingKeyIsEmpty(t *testing.T) {
	s := NewRecordStore(memory.NewStore(), testKey)

	d, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, d)
	assert.NotNil(t, d)
}

func TestRecordStore_RoundTrip(t *testing.T) {
	s := NewRecordStore(memory.NewStore(), testKey)
	ctx := context.Background()

	d := domain.UptimeDataset{}
	d.Apply("alpha", true, start)
	d.Apply("alpha", false, start.Add(time.Hour))
	require.NoError(t, s.Save(ctx, d))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, got, "alpha")
	assert.Len(t, got["alpha"].Entries, 2)
	assert.Equal(t, d["alpha"].Uptime, got["alpha"].Uptime)
	assert.True(t, got["alpha"].LastCheck.Equal(start.Add(time.Hour)))
}

func TestRecordStore_CorruptData(t *testing.T) {
	kv := memory.NewStore()
	require.NoError(t, kv.Put(context.Background(), testKey, []byte("{not json")))

	d, err := NewRecordStore(kv, testKey).Load(context.Background())

	assert.Error(t, err)
	assert.NotNil(t, d)
	assert.Empty(t, d)
}

func TestRecordStore_ReadError(t *testing.T) {
	kv := &countingKV{KV: memory.NewStore(), getErr: errors.New("timeout")}

	d, err := NewRecordStore(kv, testKey).Load(context.Background())

	assert.Error(t, err)
	assert.Empty(t, d)
}

func TestRecordStore_NullRecordsDropped(t *testing.T) {
	kv := memory.NewStore()
	require.NoError(t, kv.Put(context.Background(), testKey, []byte(`{"ghost":null}`)))

	d, err := NewRecordStore(kv, testKey).Load(context.Background())

	require.NoError(t, err)
	assert.NotContains(t, d, "ghost")
}
