package scheduler

import (
	"context"

	"github.com/jankclient/directory/internal/domain"
	"github.com/jankclient/directory/internal/index"
	"github.com/jankclient/directory/internal/logger"
)

// DatasetLoader reads the persisted uptime dataset.
type DatasetLoader interface {
	Load(ctx context.Context) (domain.UptimeDataset, error)
}

// UptimeSyncer loads the persisted dataset into the index on startup, so
// the read paths answer before the first pass completes
type UptimeSyncer struct {
	store  DatasetLoader
	index  *index.UptimeIndex
	logger logger.Logger
}

// NewUptimeSyncer creates a new uptime syncer
func NewUptimeSyncer(
	store DatasetLoader,
	idx *index.UptimeIndex,
	log logger.Logger,
) *UptimeSyncer {
	return &UptimeSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the dataset and replaces the index contents
func (us *UptimeSyncer) Sync(ctx context.Context) error {
	us.logger.Info("syncing uptime data from store to memory")

	dataset, err := us.store.Load(ctx)
	if err != nil {
		return err
	}

	if len(dataset) == 0 {
		us.logger.Info("no uptime data found in store")
		return nil
	}

	us.index.Replace(dataset)

	us.logger.Info("synced uptime data from store",
		logger.Int("count", len(dataset)))

	return nil
}
