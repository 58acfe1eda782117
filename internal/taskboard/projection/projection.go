// Package projection computes display values from stored state and the
// caller's clock. Nothing here is persisted.
package projection

import (
	"math"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
)

// HoursSpent converts minutes to hours rounded to two decimals.
func HoursSpent(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// MeetingDisplay is how a meeting is presented at a given instant.
type MeetingDisplay string

const (
	DisplayCancelled MeetingDisplay = "cancelled"
	DisplayCompleted MeetingDisplay = "completed"
	DisplayOngoing   MeetingDisplay = "ongoing"
	DisplayUpcoming  MeetingDisplay = "upcoming"
)

// Meeting projects m at now. Cancellation wins over time; otherwise the
// window decides, with both bounds counting as ongoing.
func Meeting(m domain.Meeting, now time.Time) MeetingDisplay {
	switch {
	case m.Status == domain.MeetingCancelled:
		return DisplayCancelled
	case m.EndTime.Before(now):
		return DisplayCompleted
	case !m.StartTime.After(now):
		return DisplayOngoing
	default:
		return DisplayUpcoming
	}
}

// Color is the badge color clients use for d.
func (d MeetingDisplay) Color() string {
	switch d {
	case DisplayCancelled:
		return "red"
	case DisplayCompleted:
		return "gray"
	case DisplayOngoing:
		return "green"
	default:
		return "blue"
	}
}
