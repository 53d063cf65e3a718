package calendar

import (
	"time"
)

const (
	sessionStartHour = 9
	sessionLength    = 2 * time.Hour
)

// WeekBoundary is the moment weekly calendars are built: Monday 08:59.
func WeekBoundary(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 8, 59, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NextWeekBoundary returns the first Monday 08:59 at or after t.
func NextWeekBoundary(t time.Time) time.Time {
	b := WeekBoundary(t)
	if b.Before(t) {
		b = b.AddDate(0, 0, 7)
	}
	return b
}

// BoundaryWithin reports the week boundary inside [start, end), if any.
func BoundaryWithin(start, end time.Time) (time.Time, bool) {
	b := NextWeekBoundary(start)
	if b.Before(end) {
		return b, true
	}
	return time.Time{}, false
}

// BuildWeek lays out a template week starting at monday for a team whose
// kickoffs are given. Days with a match get no session.
func BuildWeek(teamID string, monday time.Time, kickoffs []time.Time, newID func() (string, error)) ([]Event, error) {
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())

	matchDay := make(map[int]bool, len(kickoffs))
	for _, k := range kickoffs {
		k = k.In(monday.Location())
		day := int(time.Date(k.Year(), k.Month(), k.Day(), 0, 0, 0, 0, monday.Location()).Sub(monday).Hours() / 24)
		matchDay[day] = true
	}

	teamBuildingPlaced := false
	out := make([]Event, 0, 7)
	for day := 0; day < 7; day++ {
		if matchDay[day] {
			continue
		}

		var kind EventType
		switch {
		case matchDay[day+1]:
			kind = EventMatchPreparation
		case matchDay[day-1]:
			kind = EventRecoverySession
		case day == 2 && !teamBuildingPlaced:
			kind = EventTeamBuilding
			teamBuildingPlaced = true
		case day == 6:
			kind = EventRestDay
		case day == 5:
			kind = EventLightTraining
		default:
			kind = EventTraining
		}

		id, err := newID()
		if err != nil {
			return nil, err
		}
		start := monday.AddDate(0, 0, day).Add(sessionStartHour * time.Hour)
		out = append(out, Event{
			ID:     id,
			TeamID: teamID,
			Type:   kind,
			Start:  start,
			End:    start.Add(sessionLength),
		})
	}
	return out, nil
}
