package domain

import "time"

const (
	// Day is the trailing window behind UptimeWindows.Daytime.
	Day = 24 * time.Hour
	// Week is the trailing window behind UptimeWindows.Weektime.
	Week = 7 * Day
)

// ComputeSummary derives the uptime summary of a transition log as seen at now.
//
// Each entry opens a half-open interval that ends at the next entry, the last
// one ends at now. Online intervals are summed over the whole history and,
// clipped, over the trailing week and day. A history no longer than a window
// reports its all-time fraction for that window.
//
// A single entry reports fully online: no time has elapsed to measure yet.
func ComputeSummary(entries []UptimeEntry, now time.Time) InstanceUptimeInfo {
	switch len(entries) {
	case 0:
		return InstanceUptimeInfo{}
	case 1:
		return InstanceUptimeInfo{
			Online: true,
			Uptime: UptimeWindows{Daytime: 1, Weektime: 1, Alltime: 1},
		}
	}

	prevDay := now.Add(-Day)
	prevWeek := now.Add(-Week)

	var total, alltime, weektime, daytime time.Duration
	online := false

	for i, entry := range entries {
		online = entry.Online

		next := now
		if i+1 < len(entries) {
			next = entries[i+1].Time
		}
		passed := next.Sub(entry.Time)
		if passed < 0 {
			passed = 0
		}
		total += passed

		if !online {
			continue
		}
		alltime += passed

		if next.After(prevWeek) {
			weekPassed := min(passed, next.Sub(prevWeek))
			weektime += weekPassed

			if next.After(prevDay) {
				daytime += min(weekPassed, next.Sub(prevDay))
			}
		}
	}

	return InstanceUptimeInfo{
		Online: online,
		Uptime: windows(total, alltime, daytime, weektime, online),
	}
}

func windows(total, alltime, daytime, weektime time.Duration, online bool) UptimeWindows {
	if total <= 0 {
		f := 0.0
		if online {
			f = 1
		}
		return UptimeWindows{Daytime: f, Weektime: f, Alltime: f}
	}

	all := fraction(alltime, total)
	if total <= Day {
		return UptimeWindows{Daytime: all, Weektime: all, Alltime: all}
	}

	// Nothing accumulated inside the window: fall back to the last known state.
	if daytime == 0 && online {
		daytime = Day
	}
	w := UptimeWindows{Daytime: fraction(daytime, Day), Weektime: all, Alltime: all}

	if total > Week {
		if weektime == 0 && online {
			weektime = Week
		}
		w.Weektime = fraction(weektime, Week)
	}
	return w
}

func fraction(part, whole time.Duration) float64 {
	f := float64(part) / float64(whole)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
