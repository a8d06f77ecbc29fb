package domain

import (
	"context"
	"math/rand/v2"
	"sort"
)

type Day string

const (
	DayToday    Day = "Today"
	DayTomorrow Day = "Tomorrow"
	DayNextDay  Day = "Next Day"
)

// Days is the fixed, ordered day window schedules are generated for.
var Days = []Day{DayToday, DayTomorrow, DayNextDay}

// Showtimes is the fixed, ordered set of clock times a showing can start at.
var Showtimes = []string{"10:00", "12:30", "15:00", "17:30", "20:00", "22:30"}

const (
	maxHallsPerDay  = 2
	maxTimesPerHall = 2
)

type ScheduleEntry struct {
	Day      Day    `json:"day"`
	Time     string `json:"time"`
	HallName string `json:"hallName"`
}

// FilmHallPreferences maps a film id to the hall names a manager marked
// eligible for it. A missing or empty entry means every known hall is
// eligible.
type FilmHallPreferences map[int][]string

// FilmSchedules maps a film id to a manager-authored schedule that fully
// replaces dynamic generation for that film.
type FilmSchedules map[int][]ScheduleEntry

// Generate produces the ordered showtime schedule for a film. A custom
// schedule, when present, wins outright; otherwise showtimes are drawn
// randomly from the film's eligible hall pool. The rng is the only source of
// non-determinism, so tests inject a seeded one.
func Generate(filmID int, prefs FilmHallPreferences, overrides FilmSchedules, knownHalls []string, rng *rand.Rand) []ScheduleEntry {
	if custom, ok := overrides[filmID]; ok {
		return resolveOverride(custom, knownHalls)
	}

	pool := eligibleHalls(prefs[filmID], knownHalls)
	if len(pool) == 0 {
		return []ScheduleEntry{}
	}

	return generateDynamic(pool, rng)
}

// resolveOverride filters a custom schedule down to halls that still exist
// and sorts it for display.
func resolveOverride(entries []ScheduleEntry, knownHalls []string) []ScheduleEntry {
	known := make(map[string]bool, len(knownHalls))
	for _, h := range knownHalls {
		known[h] = true
	}

	out := make([]ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if known[e.HallName] {
			out = append(out, e)
		}
	}

	sortEntries(out)

	return out
}

// eligibleHalls intersects the film's preference list with the known halls,
// preserving preference order. No preferences, or an intersection that comes
// up empty, falls back to every known hall.
func eligibleHalls(preferred, knownHalls []string) []string {
	if len(preferred) == 0 {
		return knownHalls
	}

	known := make(map[string]bool, len(knownHalls))
	for _, h := range knownHalls {
		known[h] = true
	}

	pool := make([]string, 0, len(preferred))
	for _, h := range preferred {
		if known[h] {
			pool = append(pool, h)
		}
	}

	if len(pool) == 0 {
		return knownHalls
	}

	return pool
}

func generateDynamic(pool []string, rng *rand.Rand) []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, len(Days)*maxHallsPerDay*maxTimesPerHall)
	seen := make(map[ScheduleEntry]bool)

	for _, day := range Days {
		hallCount := min(maxHallsPerDay, len(pool))

		for _, hallIdx := range rng.Perm(len(pool))[:hallCount] {
			hall := pool[hallIdx]
			timeCount := 1 + rng.IntN(maxTimesPerHall)

			for _, timeIdx := range rng.Perm(len(Showtimes))[:timeCount] {
				entry := ScheduleEntry{Day: day, Time: Showtimes[timeIdx], HallName: hall}
				if seen[entry] {
					continue
				}

				seen[entry] = true
				entries = append(entries, entry)
			}
		}
	}

	sortEntries(entries)

	return entries
}

func sortEntries(entries []ScheduleEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Day != b.Day {
			return dayRank(a.Day) < dayRank(b.Day)
		}
		if a.Time != b.Time {
			return timeRank(a.Time) < timeRank(b.Time)
		}

		return a.HallName < b.HallName
	})
}

func dayRank(d Day) int {
	for i, v := range Days {
		if v == d {
			return i
		}
	}

	return len(Days)
}

func timeRank(t string) int {
	for i, v := range Showtimes {
		if v == t {
			return i
		}
	}

	return len(Showtimes)
}

type ScheduleRepository interface {
	GetHallPreferences(ctx context.Context) (FilmHallPreferences, error)
	PutHallPreferences(ctx context.Context, prefs FilmHallPreferences) error
	GetCustomSchedules(ctx context.Context) (FilmSchedules, error)
	PutCustomSchedules(ctx context.Context, schedules FilmSchedules) error
}
