package uptime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/store"
)

// RecordStore loads and saves the whole uptime dataset under a single key.
type RecordStore struct {
	kv  store.KV
	key string
}

// NewRecordStore creates a record store persisting under key.
func NewRecordStore(kv store.KV, key string) *RecordStore {
	return &RecordStore{kv: kv, key: key}
}

// Load returns the persisted dataset. An absent key yields an empty dataset
// and a nil error; read and decode failures yield an empty dataset and the
// error, so the caller can carry on and report it.
func (s *RecordStore) Load(ctx context.Context) (domain.UptimeDataset, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.UptimeDataset{}, nil
		}
		return domain.UptimeDataset{}, fmt.Errorf("failed to read uptime data: %w", err)
	}

	var dataset domain.UptimeDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return domain.UptimeDataset{}, fmt.Errorf("failed to decode uptime data: %w", err)
	}
	if dataset == nil {
		dataset = domain.UptimeDataset{}
	}
	for name, rec := range dataset {
		if rec == nil {
			delete(dataset, name)
		}
	}
	return dataset, nil
}

// Save writes the whole dataset with a single put.
func (s *RecordStore) Save(ctx context.Context, dataset domain.UptimeDataset) error {
	data, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("failed to encode uptime data: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write uptime data: %w", err)
	}
	return nil
}
