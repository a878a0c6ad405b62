package domain

import "time"

const (
	// HealthyCheckInterval spaces checks of an instance last seen online.
	HealthyCheckInterval = 30 * time.Minute
	// UnhealthyCheckInterval spaces checks of an instance last seen offline,
	// so recovery is noticed quickly.
	UnhealthyCheckInterval = 5 * time.Minute
)

// CheckInterval returns the spacing between two checks of record.
func CheckInterval(record *InstanceRecord) time.Duration {
	if record != nil && record.Uptime.Online {
		return HealthyCheckInterval
	}
	return UnhealthyCheckInterval
}

// IsDue reports whether an instance should be probed at now.
// An instance without a record has never been checked and is always due.
func IsDue(record *InstanceRecord, now time.Time) bool {
	if record == nil {
		return true
	}
	return now.Sub(record.LastCheck) > CheckInterval(record)
}
