package index

import (
	"testing"
	"time"

	"github.com/jankclient/directory/internal/domain"
)

func TestUptimeIndexReplaceCopies(t *testing.T) {
	idx := NewUptimeIndex()
	now := time.Now()

	data := domain.UptimeDataset{}
	data.Apply("alpha", true, now)
	idx.Replace(data)

	// mutating the source must not leak into the index
	data.Apply("alpha", false, now.Add(time.Minute))

	entries, ok := idx.Entries("alpha")
	if !ok {
		t.Fatal("Entries() should find alpha")
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}

	entries[0].Online = false
	again, _ := idx.Entries("alpha")
	if !again[0].Online {
		t.Error("Entries() returned a shared slice")
	}

	if idx.GetLastSync().IsZero() {
		t.Error("Replace() should set last sync")
	}
}

func TestUptimeIndexUnknownInstance(t *testing.T) {
	idx := NewUptimeIndex()

	if _, ok := idx.Summary("missing"); ok {
		t.Error("Summary() should report missing instance")
	}
	if _, ok := idx.Entries("missing"); ok {
		t.Error("Entries() should report missing instance")
	}
	if len(idx.Summaries()) != 0 {
		t.Error("Summaries() should be empty")
	}
}

func TestUptimeIndexSummaries(t *testing.T) {
	idx := NewUptimeIndex()
	now := time.Now()

	data := domain.UptimeDataset{}
	data.Apply("alpha", true, now)
	data.Apply("beta", false, now)
	idx.Replace(data)

	if got := idx.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	s, ok := idx.Summary("beta")
	if !ok || !s.Online {
		t.Errorf("Summary(beta) = %+v, %v; single entry records report online", s, ok)
	}
}

func TestUptimeIndexPassAndInstances(t *testing.T) {
	idx := NewUptimeIndex()
	idx.RecordPass(PassReport{Instances: 3, Probed: 2})
	idx.SetInstances([]domain.Instance{{Name: "alpha"}})

	if got := idx.LastPass().Probed; got != 2 {
		t.Errorf("LastPass().Probed = %d, want 2", got)
	}
	if got := idx.Instances(); len(got) != 1 || got[0].Name != "alpha" {
		t.Errorf("Instances() = %+v", got)
	}
}
