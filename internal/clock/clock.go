// Package clock advances in-game time one hour per tick and derives
// season/day-night state from it (spec §4.C).
package clock

import "terrasim/internal/config"

// monthInfo is one entry of the fixed 12-entry calendar table (spec §4.C).
type monthInfo struct {
	name          string
	daylightHours int
}

// months is indexed by month-1. Daylight hours swing from short winter
// days to long summer days and back, Earth-like.
var months = [12]monthInfo{
	{"Frostwane", 9},
	{"Thawmoot", 10},
	{"Greentide", 12},
	{"Bloomrest", 13},
	{"Suncrest", 14},
	{"Highsun", 15},
	{"Amberfall", 14},
	{"Harvestide", 13},
	{"Duskmoot", 12},
	{"Hollowmoon", 10},
	{"Frostgate", 9},
	{"Deepwinter", 8},
}

// GameTime is the simulator's calendar, exposed verbatim over the query
// surface (spec §6).
type GameTime struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`  // 1..12
	Day           int    `json:"day"`    // 1..30
	Hour          int    `json:"hour"`   // 0..23
	Minute        int    `json:"minute"` // 0..59; the clock advances whole hours, so it stays 0
	IsDay         bool   `json:"is_day"`
	MonthName     string `json:"month_name"`
	DaylightHours int    `json:"daylight_hours"`
}

// New returns the calendar's epoch: year 1, month 1, day 1, midnight.
func New() *GameTime {
	t := &GameTime{Year: 1, Month: 1, Day: 1, Hour: 0, Minute: 0}
	t.recompute(config.Default())
	return t
}

// Advance moves the clock forward one tick (one in-game hour), cascading
// into day/month/year rollovers, then recomputes IsDay (spec §4.C).
func (t *GameTime) Advance(cfg *config.Config) {
	t.Hour++
	if t.Hour >= cfg.Time.HoursPerDay {
		t.Hour = 0
		t.Day++
	}
	if t.Day > cfg.Time.DaysPerMonth {
		t.Day = 1
		t.Month++
	}
	if t.Month > cfg.Time.MonthsPerYear {
		t.Month = 1
		t.Year++
	}
	t.recompute(cfg)
}

// recompute derives MonthName, DaylightHours and IsDay from the current
// (month, hour). The daylight window is [06:00, 06:00+daylightHours).
func (t *GameTime) recompute(cfg *config.Config) {
	idx := (t.Month - 1) % len(months)
	if idx < 0 {
		idx += len(months)
	}
	info := months[idx]
	t.MonthName = info.name
	t.DaylightHours = info.daylightHours

	dayStart := 6
	dayEnd := dayStart + info.daylightHours
	hour := t.Hour
	if dayEnd <= 24 {
		t.IsDay = hour >= dayStart && hour < dayEnd
	} else {
		// Window wraps past midnight (very long summer days).
		t.IsDay = hour >= dayStart || hour < dayEnd-24
	}
}

// YearProgress returns how far through the current year this moment is,
// in [0, 1), used by the temperature subsystem's season cosine (spec §4.D).
func (t *GameTime) YearProgress(cfg *config.Config) float64 {
	totalDays := cfg.Time.MonthsPerYear * cfg.Time.DaysPerMonth
	dayOfYear := (t.Month-1)*cfg.Time.DaysPerMonth + (t.Day - 1)
	hourFrac := float64(t.Hour) / float64(cfg.Time.HoursPerDay)
	return (float64(dayOfYear) + hourFrac) / float64(totalDays)
}
