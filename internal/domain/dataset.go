package domain

import "time"

// UptimeDataset maps instance names to their records. It is the whole
// persisted state of the monitor.
type UptimeDataset map[string]*InstanceRecord

// Apply records a health result for name observed at now.
//
// An entry is appended only when the state differs from the last recorded
// one, so the log holds transitions rather than every check. The summary is
// recomputed and LastCheck advanced either way. It returns the updated record
// and whether the state changed.
func (d UptimeDataset) Apply(name string, healthy bool, now time.Time) (*InstanceRecord, bool) {
	rec, ok := d[name]
	if !ok || rec == nil {
		rec = &InstanceRecord{}
		d[name] = rec
	}

	changed := false
	if last, ok := rec.LastEntry(); !ok || last.Online != healthy {
		at := now
		if ok && at.Before(last.Time) {
			at = last.Time
		}
		rec.Entries = append(rec.Entries, UptimeEntry{Time: at, Online: healthy})
		changed = true
	}

	rec.Uptime = ComputeSummary(rec.Entries, now)
	if now.After(rec.LastCheck) {
		rec.LastCheck = now
	}
	return rec, changed
}

// Summaries returns the cached summary of every record.
func (d UptimeDataset) Summaries() map[string]InstanceUptimeInfo {
	out := make(map[string]InstanceUptimeInfo, len(d))
	for name, rec := range d {
		if rec == nil {
			continue
		}
		out[name] = rec.Uptime
	}
	return out
}

// Clone returns a deep copy of the dataset.
func (d UptimeDataset) Clone() UptimeDataset {
	out := make(UptimeDataset, len(d))
	for name, rec := range d {
		if rec == nil {
			continue
		}
		out[name] = rec.Clone()
	}
	return out
}
