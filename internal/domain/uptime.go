package domain

import (
	"encoding/json"
	"time"
)

// UptimeEntry is one point of the transition log: the instant an instance
// was first observed, or the instant its state flipped.
type UptimeEntry struct {
	Time   time.Time
	Online bool
}

// UptimeWindows holds availability fractions in [0,1].
type UptimeWindows struct {
	Daytime  float64 `json:"daytime"`
	Weektime float64 `json:"weektime"`
	Alltime  float64 `json:"alltime"`
}

// InstanceUptimeInfo is the cached summary derived from the transition log.
type InstanceUptimeInfo struct {
	Online bool          `json:"online"`
	Uptime UptimeWindows `json:"uptime"`
}

// InstanceRecord is everything persisted for a single instance.
type InstanceRecord struct {
	Entries   []UptimeEntry
	Uptime    InstanceUptimeInfo
	LastCheck time.Time
}

// Times are stored as epoch milliseconds, the format of the persisted dataset.

type uptimeEntryJSON struct {
	Time   int64 `json:"time"`
	Online bool  `json:"online"`
}

func (e UptimeEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(uptimeEntryJSON{Time: e.Time.UnixMilli(), Online: e.Online})
}

func (e *UptimeEntry) UnmarshalJSON(data []byte) error {
	var raw uptimeEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Time = time.UnixMilli(raw.Time)
	e.Online = raw.Online
	return nil
}

type instanceRecordJSON struct {
	Entries   []UptimeEntry      `json:"entries"`
	Uptime    InstanceUptimeInfo `json:"uptime"`
	LastCheck int64              `json:"lastCheck"`
}

func (r InstanceRecord) MarshalJSON() ([]byte, error) {
	entries := r.Entries
	if entries == nil {
		entries = []UptimeEntry{}
	}
	return json.Marshal(instanceRecordJSON{
		Entries:   entries,
		Uptime:    r.Uptime,
		LastCheck: r.LastCheck.UnixMilli(),
	})
}

func (r *InstanceRecord) UnmarshalJSON(data []byte) error {
	var raw instanceRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Entries = raw.Entries
	r.Uptime = raw.Uptime
	r.LastCheck = time.UnixMilli(raw.LastCheck)
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared entries.
func (r *InstanceRecord) Clone() *InstanceRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Entries = append([]UptimeEntry(nil), r.Entries...)
	return &c
}

// LastEntry returns the most recent transition, if any.
func (r *InstanceRecord) LastEntry() (UptimeEntry, bool) {
	if r == nil || len(r.Entries) == 0 {
		return UptimeEntry{}, false
	}
	return r.Entries[len(r.Entries)-1], true
}
