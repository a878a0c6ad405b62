package index

import (
	"sync"
	"time"

	"github.com/jankclient/directory/internal/domain"
)

// PassReport summarises one monitoring pass.
type PassReport struct {
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Instances   int           `json:"instances"`
	Probed      int           `json:"probed"`
	Healthy     int           `json:"healthy"`
	Transitions int           `json:"transitions"`
	Discarded   int           `json:"discarded"`
	Persisted   bool          `json:"persisted"`
}

// UptimeIndex keeps the latest known uptime dataset in memory and serves
// the read paths without touching the store.
type UptimeIndex struct {
	mu        sync.RWMutex
	records   domain.UptimeDataset
	instances []domain.Instance
	lastSync  time.Time
	lastPass  PassReport
}

// NewUptimeIndex creates an empty index
func NewUptimeIndex() *UptimeIndex {
	return &UptimeIndex{
		records: make(domain.UptimeDataset),
	}
}

// Replace swaps the whole dataset. The index keeps its own copy.
func (idx *UptimeIndex) Replace(data domain.UptimeDataset) {
	c := data.Clone()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.records = c
	idx.lastSync = time.Now()
}

// SetInstances stores the directory the last pass ran over
func (idx *UptimeIndex) SetInstances(instances []domain.Instance) {
	c := append([]domain.Instance(nil), instances...)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.instances = c
}

// Instances returns the directory the last pass ran over
func (idx *UptimeIndex) Instances() []domain.Instance {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]domain.Instance(nil), idx.instances...)
}

// RecordPass stores the report of the latest pass
func (idx *UptimeIndex) RecordPass(report PassReport) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.lastPass = report
}

// LastPass returns the report of the latest pass (zero before the first one)
func (idx *UptimeIndex) LastPass() PassReport {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastPass
}

// Summary returns the cached summary of an instance
func (idx *UptimeIndex) Summary(name string) (domain.InstanceUptimeInfo, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rec, ok := idx.records[name]
	if !ok || rec == nil {
		return domain.InstanceUptimeInfo{}, false
	}
	return rec.Uptime, true
}

// Entries returns a copy of the transition log of an instance
func (idx *UptimeIndex) Entries(name string) ([]domain.UptimeEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rec, ok := idx.records[name]
	if !ok || rec == nil {
		return nil, false
	}
	return append([]domain.UptimeEntry{}, rec.Entries...), true
}

// Summaries returns the summary of every known instance
func (idx *UptimeIndex) Summaries() map[string]domain.InstanceUptimeInfo {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.records.Summaries()
}

// Count returns the number of instances with a record
func (idx *UptimeIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.records)
}

// GetLastSync returns when the dataset was last replaced
func (idx *UptimeIndex) GetLastSync() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastSync
}
